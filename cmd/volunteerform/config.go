package main

import (
	"time"

	"github.com/dmitrymomot/volunteerform/internal/mount"
	"github.com/dmitrymomot/volunteerform/internal/signup"
	"github.com/dmitrymomot/volunteerform/pkg/httpserver"
	"github.com/dmitrymomot/volunteerform/pkg/redis"
	"github.com/dmitrymomot/volunteerform/pkg/validator"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"volunteerform"`
	Title    string `env:"APP_TITLE" envDefault:"Volunteer signup"`
	LogLevel string `env:"LOG_LEVEL"`

	SignupEndpoint string             `env:"SIGNUP_ENDPOINT" envDefault:"https://reqres.in/api/users"`
	SignupTimeout  time.Duration      `env:"SIGNUP_TIMEOUT" envDefault:"10s"`
	ResetPolicy    signup.ResetPolicy `env:"SIGNUP_RESET_POLICY" envDefault:"keep_position"`
	Sanitize       bool               `env:"SIGNUP_SANITIZE" envDefault:"false"`

	Mount mount.Config
	HTTP  httpserver.Config
	Redis redis.Config
}

func (c appConfig) Validate() error {
	return validator.Apply(
		validator.NonEmpty("APP_NAME", c.Name),
		validator.ValidURLWithScheme("SIGNUP_ENDPOINT", c.SignupEndpoint, []string{"http", "https"}),
		validator.Positive("SIGNUP_TIMEOUT", c.SignupTimeout),
		validator.InListString("MOUNT_BACKEND", string(c.Mount.Backend), []string{
			string(mount.BackendMemory),
			string(mount.BackendRedis),
		}),
		validator.Positive("MOUNT_TTL", c.Mount.TTL),
		validator.Min("MOUNT_CLEANUP_INTERVAL", c.Mount.CleanupInterval, 0),
	)
}

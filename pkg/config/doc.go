// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for tag-driven parsing. Parsed structs are cached
// per type for the lifetime of the process; ResetCache clears the cache in
// tests.
//
// A config struct that implements Validator is checked right after parsing,
// and Load fails with ErrInvalidConfig when the check fails:
//
//	func (c AppConfig) Validate() error {
//		return validator.Apply(validator.ValidURLWithScheme("endpoint", c.Endpoint, []string{"http", "https"}))
//	}
package config

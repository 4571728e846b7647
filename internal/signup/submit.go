package signup

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/volunteerform/pkg/logger"
	"github.com/dmitrymomot/volunteerform/pkg/sanitizer"
	"github.com/dmitrymomot/volunteerform/pkg/webhook"
)

// DefaultEndpoint receives submissions when none is configured.
const DefaultEndpoint = "https://reqres.in/api/users"

// Submitter delivers a captured record. Store.Submit calls it once per
// submission from a detached goroutine and only logs the outcome.
type Submitter interface {
	Submit(ctx context.Context, r Record) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, r Record) error

func (f SubmitterFunc) Submit(ctx context.Context, r Record) error {
	return f(ctx, r)
}

// WebhookSubmitter posts the record as JSON with a single attempt.
type WebhookSubmitter struct {
	sender   *webhook.Sender
	endpoint string
	timeout  time.Duration
	log      *slog.Logger
}

// NewWebhookSubmitter posts to endpoint, or DefaultEndpoint when empty.
// A nil sender gets a default webhook.Sender; a non-positive timeout keeps
// the sender's default.
func NewWebhookSubmitter(sender *webhook.Sender, endpoint string, timeout time.Duration, log *slog.Logger) *WebhookSubmitter {
	if sender == nil {
		sender = webhook.NewSender()
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = logger.Discard()
	}
	return &WebhookSubmitter{sender: sender, endpoint: endpoint, timeout: timeout, log: log}
}

func (s *WebhookSubmitter) Endpoint() string {
	return s.endpoint
}

func (s *WebhookSubmitter) Submit(ctx context.Context, r Record) error {
	opts := []webhook.SendOption{
		webhook.WithOnDelivery(func(res webhook.DeliveryResult) {
			s.log.DebugContext(ctx, "signup delivery attempt",
				logger.Endpoint(res.URL),
				logger.StatusCode(res.StatusCode),
				logger.Duration(res.Duration),
				slog.String("email", sanitizer.MaskEmail(r.Email)),
				slog.String("response", string(res.Body)),
			)
		}),
	}
	if s.timeout > 0 {
		opts = append(opts, webhook.WithTimeout(s.timeout))
	}
	return s.sender.Send(ctx, s.endpoint, r, opts...)
}

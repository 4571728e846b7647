package webhook

import "errors"

// Configuration errors fail before any request is made; delivery errors
// describe what happened on the wire.
var (
	ErrDeliveryFailed   = errors.New("webhook delivery failed")
	ErrPermanentFailure = errors.New("permanent webhook failure")
	ErrTemporaryFailure = errors.New("temporary webhook failure")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrInvalidURL       = errors.New("invalid webhook URL")
	ErrTimeout          = errors.New("webhook request timeout")
)

// IsPermanent reports whether err is a failure that would repeat on resend.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanentFailure) || errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrInvalidPayload)
}

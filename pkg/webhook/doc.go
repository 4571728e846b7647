// Package webhook delivers JSON payloads to remote HTTP endpoints.
//
// A Sender makes exactly one POST per Send call with Content-Type
// application/json. It does not retry: callers that want fire-and-forget
// semantics simply log the returned error.
//
// # Basic Usage
//
//	sender := webhook.NewSender()
//	err := sender.Send(ctx, "https://api.example.com/hook", payload,
//	    webhook.WithTimeout(5*time.Second),
//	    webhook.WithHeader("X-Source", "signup"),
//	)
//
// # Error Handling
//
// Every delivery error wraps ErrDeliveryFailed together with one of
// ErrTimeout, ErrTemporaryFailure or ErrPermanentFailure. Inputs are checked
// before the request is built and fail with ErrInvalidURL or
// ErrInvalidPayload. Use errors.Is to classify, or IsPermanent.
//
// # Observability
//
// WithOnDelivery receives a DeliveryResult (status, duration, a bounded body
// excerpt and the error) after the attempt, whether it succeeded or not.
package webhook

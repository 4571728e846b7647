package webhook

import (
	"net/http"
	"time"
)

// DeliveryResult contains information about a delivery attempt
type DeliveryResult struct {
	URL        string
	Success    bool
	StatusCode int
	Duration   time.Duration
	Body       []byte
	Error      error
}

// DeliveryHook is called after the delivery attempt
type DeliveryHook func(result DeliveryResult)

// sendOptions contains all configurable options for a send operation
type sendOptions struct {
	timeout    time.Duration
	headers    map[string]string
	userAgent  string
	httpClient *http.Client
	onDelivery DeliveryHook
}

// defaultSendOptions returns options with sensible defaults
func defaultSendOptions() *sendOptions {
	return &sendOptions{
		timeout:   10 * time.Second,
		headers:   make(map[string]string),
		userAgent: "volunteerform-webhook/1.0",
	}
}

// SendOption is a functional option for configuring sends
type SendOption func(*sendOptions)

// WithTimeout sets the HTTP request timeout.
// Default is 10 seconds if not specified.
func WithTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHeader adds a custom header to the request.
// Standard headers like Content-Type are set automatically.
func WithHeader(key, value string) SendOption {
	return func(o *sendOptions) {
		if key != "" && value != "" {
			o.headers[key] = value
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) SendOption {
	return func(o *sendOptions) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithHTTPClient sets a custom HTTP client for the request.
func WithHTTPClient(client *http.Client) SendOption {
	return func(o *sendOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithOnDelivery sets a callback that's invoked after the delivery attempt.
// Useful for logging or metrics.
func WithOnDelivery(hook DeliveryHook) SendOption {
	return func(o *sendOptions) {
		o.onDelivery = hook
	}
}

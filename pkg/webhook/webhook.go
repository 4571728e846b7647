package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sender posts JSON payloads to remote endpoints.
// Zero value is not usable; use NewSender to create instances.
type Sender struct {
	// client is reused across requests for connection pooling
	client *http.Client
}

// NewSender creates a sender with a pooled HTTP client.
func NewSender() *Sender {
	return &Sender{
		client: &http.Client{
			Timeout: 30 * time.Second, // upper bound, per-send timeout is set with WithTimeout
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewSenderWithClient creates a sender with a custom HTTP client.
// This allows for custom transports, proxies, or testing.
func NewSenderWithClient(client *http.Client) *Sender {
	if client == nil {
		return NewSender()
	}
	return &Sender{client: client}
}

// Send delivers data as a single JSON POST to targetURL.
// The data parameter can be any value that marshals to JSON.
// There is exactly one attempt; callers decide what a failure means.
//
// Example:
//
//	err := sender.Send(ctx, "https://reqres.in/api/users", record,
//		webhook.WithTimeout(5*time.Second),
//		webhook.WithOnDelivery(func(r webhook.DeliveryResult) {
//			log.Info("delivered", "status", r.StatusCode)
//		}),
//	)
func (s *Sender) Send(ctx context.Context, targetURL string, data any, opts ...SendOption) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	if err := validateInputs(targetURL, payload); err != nil {
		return err
	}

	options := defaultSendOptions()
	for _, opt := range opts {
		opt(options)
	}

	client := s.client
	if options.httpClient != nil {
		client = options.httpClient
	}

	result, err := s.attemptDelivery(ctx, client, targetURL, payload, options)
	if options.onDelivery != nil {
		options.onDelivery(result)
	}
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	return nil
}

// validateInputs performs early validation to fail fast on obvious errors
func validateInputs(targetURL string, payload []byte) error {
	if targetURL == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}

	u, err := url.Parse(targetURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	if len(payload) == 0 || string(payload) == "null" {
		return fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}

	return nil
}

// attemptDelivery makes one HTTP request with timing and error capture
func (s *Sender) attemptDelivery(ctx context.Context, client *http.Client, targetURL string, payload []byte, options *sendOptions) (DeliveryResult, error) {
	start := time.Now()
	result := DeliveryResult{URL: targetURL}

	reqCtx, cancel := context.WithTimeout(ctx, options.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, targetURL, bytes.NewReader(payload))
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = err
		return result, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", options.userAgent)
	for k, v := range options.headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	result.Duration = time.Since(start)

	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			result.Error = fmt.Errorf("%w: %w", ErrTimeout, err)
			return result, result.Error
		}
		result.Error = fmt.Errorf("%w: %w", ErrTemporaryFailure, err)
		return result, result.Error
	}

	defer func() { _ = resp.Body.Close() }()
	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300

	// 64KB is plenty for an error excerpt
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024*64))
	result.Body = body

	if !result.Success {
		errMsg := fmt.Sprintf("endpoint returned status %d", resp.StatusCode)
		if len(body) > 0 {
			// Keep log lines single-line and short
			bodyStr := strings.ReplaceAll(string(body), "\n", " ")
			if len(bodyStr) > 200 {
				bodyStr = bodyStr[:200] + "..."
			}
			errMsg += fmt.Sprintf(": %s", bodyStr)
		}
		kind := ErrTemporaryFailure
		if isPermanentStatus(resp.StatusCode) {
			kind = ErrPermanentFailure
		}
		result.Error = fmt.Errorf("%w: %s", kind, errMsg)
		return result, result.Error
	}

	return result, nil
}

// isPermanentStatus reports whether a status code means the same request
// would fail again. A few 4xx codes describe transient server conditions.
func isPermanentStatus(statusCode int) bool {
	if statusCode < 400 || statusCode >= 500 {
		return false
	}
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	default:
		return true
	}
}

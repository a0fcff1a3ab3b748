package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// Sender performs a single delivery attempt. It reports transport errors
// and HTTP status separately so the dispatcher can record both.
type Sender struct {
	client *http.Client
}

func NewSender(timeout time.Duration) *Sender {
	return &Sender{
		client: &http.Client{Timeout: timeout},
	}
}

// Send posts body to url with the webhook headers. The signature header
// is omitted when the subscription has no secret. Any outcome other than
// a 2xx response returns a *DeliveryError; the status code (when one was
// received) comes back either way.
func (s *Sender) Send(ctx context.Context, url, secret, eventName string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, &DeliveryError{URL: url, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, eventName)
	if secret != "" {
		req.Header.Set(HeaderSignature, Sign(secret, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, &DeliveryError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &DeliveryError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

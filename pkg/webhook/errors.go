package webhook

import "fmt"

// DeliveryError describes one failed delivery attempt: a transport
// error, a timeout, or a non-2xx response. It is recorded on the
// delivery row and never propagated to the business transaction that
// produced the event.
type DeliveryError struct {
	URL        string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deliver to %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("deliver to %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

package llm

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable marks a transport failure or a non-success
// status from an external service. These are terminal for the
// operation and are not retried.
var ErrServiceUnavailable = errors.New("service unavailable")

// ProtocolError means the service responded, but in a shape this
// client cannot parse. The raw body is echoed for diagnosis.
type ProtocolError struct {
	Raw []byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unparseable service response: %s", e.Raw)
}

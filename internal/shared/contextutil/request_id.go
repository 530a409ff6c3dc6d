package contextutil

import (
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// NewRequestID mints a request id when the client did not send one.
func NewRequestID() string {
	return uuid.NewString()
}

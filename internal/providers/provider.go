package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

// Provider returns the raw flight-offers document for one query.
type Provider interface {
	Name() string
	Search(ctx context.Context, q models.Query) (json.RawMessage, error)
}

// ErrTimeout is matched with errors.Is when an upstream call ran out of time.
var ErrTimeout = errors.New("upstream request timed out")

// UpstreamRequestError reports a failed call to an upstream API, either a
// transport error or a non-success status.
type UpstreamRequestError struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamRequestError) Error() string {
	msg := e.Provider + " " + e.Operation
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
		if e.Body != "" {
			msg += ": " + e.Body
		}
		return msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamRequestError) Unwrap() error {
	return e.Err
}

func NewUpstreamError(provider, operation string, err error) *UpstreamRequestError {
	return &UpstreamRequestError{
		Provider:  provider,
		Operation: operation,
		Err:       err,
	}
}

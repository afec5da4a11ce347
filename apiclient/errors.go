package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// FallbackMessage is shown when a failing service response carries no
// usable error message.
const FallbackMessage = "Oops! Something went wrong"

// Error is a failed service response. Message is the server-supplied
// explanation when one was present, else FallbackMessage.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("service error (%d): %s", e.Status, e.Message)
}

// errorEnvelope is the error body shape both services use.
type errorEnvelope struct {
	Error string `json:"error"`
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Message: FallbackMessage}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(body) > 0 {
		var envelope errorEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
	}
	return apiErr
}

// IsCanceled reports whether err stems from a cancelled request rather
// than a real failure. Cancelled fetches are swallowed, not surfaced.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// UserMessage extracts the operator-facing message for err: the
// server-supplied message for service errors, else the generic fallback.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return FallbackMessage
}

package publisher

import (
	"errors"
	"fmt"
)

// PublishError is the normalized failure an adapter hands back to the
// dispatcher: a short machine code, the platform's message, and the raw
// response body for the upload log. Adapters never panic and never leak
// transport errors untagged.
type PublishError struct {
	Code    string
	Message string
	Details string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsPublishError normalizes any adapter error; transport failures that were
// not tagged by the adapter (timeouts, DNS) become network_error.
func AsPublishError(err error) *PublishError {
	var pe *PublishError
	if errors.As(err, &pe) {
		return pe
	}
	return &PublishError{Code: "network_error", Message: err.Error()}
}

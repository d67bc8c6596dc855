package cart

import (
	"errors"
	"fmt"
)

// ErrNoCart means the caller has no cart id or the remote cart no longer
// resolves.
var ErrNoCart = errors.New("no cart")

// ValidationError is bad local input; no remote call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RemoteRejectionError is a userErrors entry from a cart mutation.
type RemoteRejectionError struct {
	Field   string
	Message string
}

func (e *RemoteRejectionError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

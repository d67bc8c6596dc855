package shopify

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError is a network-level failure, including timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("shopify request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is a non-2xx response from the remote API.
type HTTPStatusError struct {
	Code int
	Body string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("shopify HTTP %d: %s", e.Code, e.Body)
}

// MalformedResponseError is a payload that is not JSON or lacks data.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "unexpected shopify response: " + e.Reason
}

// GraphQLError carries the errors array of an otherwise successful response.
type GraphQLError struct {
	Errors []GraphQLErrorItem
}

type GraphQLErrorItem struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

func (e *GraphQLError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		messages = append(messages, item.Message)
	}
	return "shopify GraphQL errors: " + strings.Join(messages, "; ")
}

// IsRemoteError reports whether err came from the remote API rather than
// from local input or storage.
func IsRemoteError(err error) bool {
	var transportErr *TransportError
	var statusErr *HTTPStatusError
	var malformedErr *MalformedResponseError
	var graphqlErr *GraphQLError
	return errors.As(err, &transportErr) ||
		errors.As(err, &statusErr) ||
		errors.As(err, &malformedErr) ||
		errors.As(err, &graphqlErr)
}

package googlepollen

import "fmt"

// AuthError means the API key is invalid (HTTP 401) or lacks access to the
// Pollen API (HTTP 403). It is not transient; retrying without operator
// action will not help.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// APIError is any other non-2xx response. It carries the status code and the
// response body text and is treated as potentially transient.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Body)
}

// ConnectionError wraps a transport-level failure: DNS, TLS, connection
// reset, or the request timeout. Expected to self-resolve on a later refresh.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("error connecting to pollen api: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

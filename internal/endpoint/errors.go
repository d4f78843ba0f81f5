package endpoint

import "fmt"

// StatusError indicates the endpoint answered with a non-2xx status.
type StatusError struct {
	StatusCode int

	// Message is the envelope's error field when the body carried one,
	// otherwise a prefix of the raw body.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Message)
}

// RemoteError indicates a well-formed envelope with success=false.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "generation failed"
	}
	return "generation failed: " + e.Message
}

// ErrInvalidEnvelope indicates a response body that is not JSON or does not
// match the envelope contract.
type ErrInvalidEnvelope struct {
	Body []byte
	Err  error
}

func (e *ErrInvalidEnvelope) Error() string {
	return fmt.Sprintf("invalid response envelope: %v", e.Err)
}

func (e *ErrInvalidEnvelope) Unwrap() error { return e.Err }

package proxy

import "fmt"

// InvalidRequestEventError is returned when an api gateway event cannot be
// turned into an http request, e.g. because its body is not valid base64.
type InvalidRequestEventError struct {
	Reason string
	Err    error
}

func (err *InvalidRequestEventError) Error() string {
	if err.Err == nil {
		return fmt.Sprintf("invalid request event: %s", err.Reason)
	}
	return fmt.Sprintf("invalid request event: %s: %v", err.Reason, err.Err)
}

// Unwrap returns the underlying error, if any.
func (err *InvalidRequestEventError) Unwrap() error {
	return err.Err
}

package personas

import "fmt"

// TransportError reports a request that never produced a usable
// response: a network-level failure, an undecodable body, or a
// non-success HTTP status.
type TransportError struct {
	Op         string // which call failed, e.g. "tools/call" or "GET /personas"
	StatusCode int    // 0 when the exchange failed before a status was received
	Err        error  // underlying cause, nil for plain bad-status failures
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a successfully transported response whose body
// carried an application-level error from the server.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server error: %s", e.Message)
}

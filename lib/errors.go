package colsync

import (
	"fmt"
	"strings"
)

// TransportError reports a failed exchange with the remote store. It is not
// retried; the failing listing, read or write is abandoned and the error
// surfaces to the caller.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote store: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing snapshot, archive or source directory.
// Operations fail with it before any side effect occurs.
type NotFoundError struct {
	Kind      string // "snapshot", "archive", "directory", ...
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s not found: %s (available: %s)", e.Kind, e.Name, strings.Join(e.Available, ", "))
}

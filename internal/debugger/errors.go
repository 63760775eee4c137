package debugger

import "fmt"

// LaunchError is returned when the debuggee could not be created
type LaunchError struct {
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ContinuationError is returned when a continuation could not be sent.
// The session cannot recover from it.
type ContinuationError struct {
	ProcessID uint32
	ThreadID  uint32
	Err       error
}

func (e *ContinuationError) Error() string {
	return fmt.Sprintf("continue pid %d tid %d: %v", e.ProcessID, e.ThreadID, e.Err)
}

func (e *ContinuationError) Unwrap() error { return e.Err }

// ReceiveError is returned when waiting for a notification fails
type ReceiveError struct {
	Err error
}

func (e *ReceiveError) Error() string {
	return fmt.Sprintf("wait for debug event: %v", e.Err)
}

func (e *ReceiveError) Unwrap() error { return e.Err }

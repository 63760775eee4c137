// Package debugger runs a debug session: it launches the target, dispatches
// debug notifications, reports module loads and owns every handle it receives.
package debugger

import (
	"github.com/vburojevic/dynaspy/internal/domain"
)

// Platform is the OS debugging facility. All methods are called from the
// goroutine that runs the session, locked to one OS thread.
type Platform interface {
	// CreateDebuggee starts program under debugger control, receiving
	// notifications for that process only.
	CreateDebuggee(program string, args []string) (domain.ProcessInfo, error)
	// WaitForNotification blocks until the debuggee produces a notification.
	WaitForNotification() (domain.Notification, error)
	// Continue resumes the thread that produced a notification.
	Continue(pid, tid uint32, decision domain.Decision) error
	// FinalPathName writes the path backing h into buf and returns its length
	// in UTF-16 units, or the required size when buf is too small.
	FinalPathName(h domain.Handle, buf []uint16, flags uint32) (uint32, error)
	// CloseHandle closes an OS handle.
	CloseHandle(h domain.Handle) error
}

// Reporter receives one record per module load
type Reporter interface {
	ModuleLoaded(m *domain.ModuleLoad) error
	Flush() error
}

package domain

import "fmt"

// Handle is an opaque OS handle received from the debug layer
type Handle uintptr

// InvalidHandle marks a notification that carried no handle
const InvalidHandle Handle = 0

// Kind identifies a debug notification variant
type Kind int

const (
	KindOther Kind = iota
	KindUnhandledException
	KindProcessCreated
	KindThreadCreated
	KindProcessExited
	KindModuleLoaded
)

func (k Kind) String() string {
	switch k {
	case KindUnhandledException:
		return "unhandled_exception"
	case KindProcessCreated:
		return "process_created"
	case KindThreadCreated:
		return "thread_created"
	case KindProcessExited:
		return "process_exited"
	case KindModuleLoaded:
		return "module_loaded"
	default:
		return "other"
	}
}

// Decision is the continuation sent back to the OS for a notification
type Decision int

const (
	// Continue resumes the debuggee normally
	Continue Decision = iota
	// PassThroughUnhandled hands an exception back to the debuggee's own handlers
	PassThroughUnhandled
)

func (d Decision) String() string {
	if d == PassThroughUnhandled {
		return "pass_through_unhandled"
	}
	return "continue"
}

// DecisionFor returns the continuation for a notification kind.
// Only exceptions are passed through; the debugger never owns exception handling.
func DecisionFor(k Kind) Decision {
	if k == KindUnhandledException {
		return PassThroughUnhandled
	}
	return Continue
}

// Notification is one event delivered by the OS debug layer
type Notification struct {
	Kind      Kind
	ProcessID uint32
	ThreadID  uint32

	// File is the image handle for ProcessCreated and ModuleLoaded
	File Handle
	// BaseAddress is the load address for ProcessCreated and ModuleLoaded
	BaseAddress uintptr
	// ExitCode is set for ProcessExited
	ExitCode uint32
	// ExceptionCode and FirstChance are set for UnhandledException
	ExceptionCode uint32
	FirstChance   bool
	// RawCode is the OS event code, kept for Other
	RawCode uint32
}

func (n Notification) String() string {
	return fmt.Sprintf("%s pid=%d tid=%d", n.Kind, n.ProcessID, n.ThreadID)
}

// NewUnhandledException creates an exception notification
func NewUnhandledException(pid, tid, code uint32, firstChance bool) Notification {
	return Notification{
		Kind:          KindUnhandledException,
		ProcessID:     pid,
		ThreadID:      tid,
		ExceptionCode: code,
		FirstChance:   firstChance,
	}
}

// NewProcessCreated creates a process creation notification carrying the image file handle
func NewProcessCreated(pid, tid uint32, file Handle, base uintptr) Notification {
	return Notification{
		Kind:        KindProcessCreated,
		ProcessID:   pid,
		ThreadID:    tid,
		File:        file,
		BaseAddress: base,
	}
}

// NewThreadCreated creates a thread creation notification
func NewThreadCreated(pid, tid uint32) Notification {
	return Notification{
		Kind:      KindThreadCreated,
		ProcessID: pid,
		ThreadID:  tid,
	}
}

// NewProcessExited creates a process exit notification
func NewProcessExited(pid, tid, exitCode uint32) Notification {
	return Notification{
		Kind:      KindProcessExited,
		ProcessID: pid,
		ThreadID:  tid,
		ExitCode:  exitCode,
	}
}

// NewModuleLoaded creates a module load notification carrying the module file handle
func NewModuleLoaded(pid, tid uint32, file Handle, base uintptr) Notification {
	return Notification{
		Kind:        KindModuleLoaded,
		ProcessID:   pid,
		ThreadID:    tid,
		File:        file,
		BaseAddress: base,
	}
}

// NewOther creates a notification for any event kind the debugger does not act on
func NewOther(pid, tid, rawCode uint32) Notification {
	return Notification{
		Kind:      KindOther,
		ProcessID: pid,
		ThreadID:  tid,
		RawCode:   rawCode,
	}
}

// ProcessInfo is what process creation hands back to the launcher
type ProcessInfo struct {
	PID     uint32
	Process Handle
	Thread  Handle
}

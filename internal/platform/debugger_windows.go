//go:build windows

package platform

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/vburojevic/dynaspy/internal/domain"
)

// Process creation flag: debug the new process but not its children.
const debugOnlyThisProcess = 0x00000002

// Continuation statuses for ContinueDebugEvent
const (
	dbgContinue            = 0x00010002
	dbgExceptionNotHandled = 0x80010001
)

// DEBUG_EVENT codes
const (
	exceptionDebugEvent     = 1
	createThreadDebugEvent  = 2
	createProcessDebugEvent = 3
	exitThreadDebugEvent    = 4
	exitProcessDebugEvent   = 5
	loadDLLDebugEvent       = 6
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procWaitForDebugEvent  = modkernel32.NewProc("WaitForDebugEvent")
	procContinueDebugEvent = modkernel32.NewProc("ContinueDebugEvent")
)

// debugEvent mirrors DEBUG_EVENT. The union is pointer aligned and at most
// 160 bytes on 64-bit and 84 bytes on 32-bit targets.
type debugEvent struct {
	DebugEventCode uint32
	ProcessID      uint32
	ThreadID       uint32
	U              [21]uintptr
}

type exceptionDebugInfo struct {
	ExceptionCode        uint32
	ExceptionFlags       uint32
	ExceptionRecord      uintptr
	ExceptionAddress     uintptr
	NumberParameters     uint32
	ExceptionInformation [15]uintptr
	FirstChance          uint32
}

type createProcessDebugInfo struct {
	File                windows.Handle
	Process             windows.Handle
	Thread              windows.Handle
	BaseOfImage         uintptr
	DebugInfoFileOffset uint32
	DebugInfoSize       uint32
	ThreadLocalBase     uintptr
	StartAddress        uintptr
	ImageName           uintptr
	Unicode             uint16
}

type exitProcessDebugInfo struct {
	ExitCode uint32
}

type loadDLLDebugInfo struct {
	File                windows.Handle
	BaseOfDll           uintptr
	DebugInfoFileOffset uint32
	DebugInfoSize       uint32
	ImageName           uintptr
	Unicode             uint16
}

// Debugger is the Win32 debug API
type Debugger struct{}

// New returns the Win32 debugger backend
func New() *Debugger {
	return &Debugger{}
}

// CreateDebuggee starts program with DEBUG_ONLY_THIS_PROCESS. The program
// path is used as-is (no PATH search); arguments are escaped Windows style.
func (d *Debugger) CreateDebuggee(program string, args []string) (domain.ProcessInfo, error) {
	appName, err := windows.UTF16PtrFromString(program)
	if err != nil {
		return domain.ProcessInfo{}, err
	}
	cmdLine, err := windows.UTF16PtrFromString(windows.ComposeCommandLine(append([]string{program}, args...)))
	if err != nil {
		return domain.ProcessInfo{}, err
	}

	si := &windows.StartupInfo{Cb: uint32(unsafe.Sizeof(windows.StartupInfo{}))}
	pi := &windows.ProcessInformation{}
	if err := windows.CreateProcess(appName, cmdLine, nil, nil, false, debugOnlyThisProcess, nil, nil, si, pi); err != nil {
		return domain.ProcessInfo{}, err
	}
	return domain.ProcessInfo{
		PID:     pi.ProcessId,
		Process: domain.Handle(pi.Process),
		Thread:  domain.Handle(pi.Thread),
	}, nil
}

// WaitForNotification blocks without timeout until the next debug event
func (d *Debugger) WaitForNotification() (domain.Notification, error) {
	ev := &debugEvent{}
	r1, _, e1 := procWaitForDebugEvent.Call(uintptr(unsafe.Pointer(ev)), uintptr(windows.INFINITE))
	if r1 == 0 {
		return domain.Notification{}, e1
	}
	return decodeEvent(ev), nil
}

func decodeEvent(ev *debugEvent) domain.Notification {
	u := unsafe.Pointer(&ev.U[0])
	switch ev.DebugEventCode {
	case exceptionDebugEvent:
		info := (*exceptionDebugInfo)(u)
		return domain.NewUnhandledException(ev.ProcessID, ev.ThreadID, info.ExceptionCode, info.FirstChance != 0)
	case createProcessDebugEvent:
		// hProcess and hThread belong to the system; only hFile is ours.
		info := (*createProcessDebugInfo)(u)
		return domain.NewProcessCreated(ev.ProcessID, ev.ThreadID, domain.Handle(info.File), info.BaseOfImage)
	case createThreadDebugEvent:
		return domain.NewThreadCreated(ev.ProcessID, ev.ThreadID)
	case exitProcessDebugEvent:
		info := (*exitProcessDebugInfo)(u)
		return domain.NewProcessExited(ev.ProcessID, ev.ThreadID, info.ExitCode)
	case loadDLLDebugEvent:
		info := (*loadDLLDebugInfo)(u)
		return domain.NewModuleLoaded(ev.ProcessID, ev.ThreadID, domain.Handle(info.File), info.BaseOfDll)
	default:
		return domain.NewOther(ev.ProcessID, ev.ThreadID, ev.DebugEventCode)
	}
}

// Continue resumes the thread that reported the last event
func (d *Debugger) Continue(pid, tid uint32, decision domain.Decision) error {
	status := uint32(dbgContinue)
	if decision == domain.PassThroughUnhandled {
		status = dbgExceptionNotHandled
	}
	r1, _, e1 := procContinueDebugEvent.Call(uintptr(pid), uintptr(tid), uintptr(status))
	if r1 == 0 {
		return e1
	}
	return nil
}

// FinalPathName wraps GetFinalPathNameByHandle
func (d *Debugger) FinalPathName(h domain.Handle, buf []uint16, flags uint32) (uint32, error) {
	if len(buf) == 0 {
		return 0, windows.ERROR_INSUFFICIENT_BUFFER
	}
	return windows.GetFinalPathNameByHandle(windows.Handle(h), &buf[0], uint32(len(buf)), flags)
}

// CloseHandle wraps CloseHandle
func (d *Debugger) CloseHandle(h domain.Handle) error {
	return windows.CloseHandle(windows.Handle(h))
}

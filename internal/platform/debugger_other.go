//go:build !windows

package platform

import "github.com/vburojevic/dynaspy/internal/domain"

// Debugger is a stub for systems without the Win32 debug API. Every call
// fails with ErrUnsupported, so a session ends at launch.
type Debugger struct{}

// New returns the stub backend
func New() *Debugger {
	return &Debugger{}
}

func (d *Debugger) CreateDebuggee(program string, args []string) (domain.ProcessInfo, error) {
	return domain.ProcessInfo{}, ErrUnsupported
}

func (d *Debugger) WaitForNotification() (domain.Notification, error) {
	return domain.Notification{}, ErrUnsupported
}

func (d *Debugger) Continue(pid, tid uint32, decision domain.Decision) error {
	return ErrUnsupported
}

func (d *Debugger) FinalPathName(h domain.Handle, buf []uint16, flags uint32) (uint32, error) {
	return 0, ErrUnsupported
}

func (d *Debugger) CloseHandle(h domain.Handle) error {
	return ErrUnsupported
}

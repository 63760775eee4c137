package debugger

// LaunchResult describes a started debuggee
type LaunchResult struct {
	PID                 uint32
	ProcessHandleClosed bool
	ThreadHandleClosed  bool
}

// Launch starts program as a debuggee. The process and thread handles
// returned by creation are closed right away: process identity arrives again
// through notifications, and closing them does not affect the debuggee.
func Launch(p Platform, program string, args []string) (LaunchResult, error) {
	info, err := p.CreateDebuggee(program, args)
	if err != nil {
		return LaunchResult{}, &LaunchError{Program: program, Err: err}
	}
	return LaunchResult{
		PID:                 info.PID,
		ProcessHandleClosed: p.CloseHandle(info.Process) == nil,
		ThreadHandleClosed:  p.CloseHandle(info.Thread) == nil,
	}, nil
}

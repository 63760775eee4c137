package session

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/vburojevic/dynaspy/internal/domain"
)

// Session is a single run of the debugger against one target command line.
// It is owned by the dispatch goroutine and does no locking.
type Session struct {
	id      string
	program string
	args    []string
	clock   clock.Clock
	started time.Time

	rootPID       uint32
	rootImageSeen bool
	state         domain.State
	reason        string

	modules    int
	unresolved int
	threads    int
	childExits int
	exceptions int
	other      int
}

// New creates a session for program and its arguments
func New(program string, args []string, clk clock.Clock) *Session {
	if clk == nil {
		clk = clock.New()
	}
	return &Session{
		id:      uuid.New().String(),
		program: program,
		args:    append([]string(nil), args...),
		clock:   clk,
		started: clk.Now(),
		state:   domain.StateRunning,
		reason:  domain.ReasonNotStarted,
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Program returns the target program path
func (s *Session) Program() string { return s.program }

// Args returns the target argument vector
func (s *Session) Args() []string { return s.args }

// Now returns the session clock's current time
func (s *Session) Now() time.Time { return s.clock.Now() }

// Attach records the root process id returned by the launcher
func (s *Session) Attach(pid uint32) {
	s.rootPID = pid
	s.started = s.clock.Now()
}

// IsRoot reports whether pid is the root process
func (s *Session) IsRoot(pid uint32) bool {
	return s.rootPID != 0 && pid == s.rootPID
}

// ObserveRootImage marks that the root process image handle has been adopted
func (s *Session) ObserveRootImage() { s.rootImageSeen = true }

// HasRootImage reports whether the root process image handle has been adopted
func (s *Session) HasRootImage() bool { return s.rootImageSeen }

// State returns the lifecycle state
func (s *Session) State() domain.State { return s.state }

// BeginTermination moves a running session to Terminating after the root exits
func (s *Session) BeginTermination() {
	if s.state != domain.StateRunning {
		return
	}
	s.state = domain.StateTerminating
	s.reason = domain.ReasonRootExit
}

// Fail moves the session straight to Terminated after a fatal protocol error
func (s *Session) Fail() {
	s.state = domain.StateTerminated
	s.reason = domain.ReasonFatalError
}

// Finish moves the session to Terminated once teardown has run
func (s *Session) Finish() {
	s.state = domain.StateTerminated
}

// Record updates counters for a dispatched notification
func (s *Session) Record(n domain.Notification) {
	switch n.Kind {
	case domain.KindUnhandledException:
		s.exceptions++
	case domain.KindThreadCreated:
		s.threads++
	case domain.KindProcessExited:
		if !s.IsRoot(n.ProcessID) {
			s.childExits++
		}
	case domain.KindOther:
		s.other++
	}
}

// RecordModule counts a module load and returns its 1-based sequence number
func (s *Session) RecordModule(resolved bool) int {
	s.modules++
	if !resolved {
		s.unresolved++
	}
	return s.modules
}

// Summary returns statistics for the session so far
func (s *Session) Summary() domain.SessionSummary {
	return domain.SessionSummary{
		Type:            "session_end",
		SchemaVersion:   domain.SchemaVersion,
		SessionID:       s.id,
		Program:         s.program,
		PID:             s.rootPID,
		Reason:          s.reason,
		Modules:         s.modules,
		Unresolved:      s.unresolved,
		Threads:         s.threads,
		ChildExits:      s.childExits,
		Exceptions:      s.exceptions,
		OtherEvents:     s.other,
		DurationSeconds: s.clock.Since(s.started).Seconds(),
	}
}

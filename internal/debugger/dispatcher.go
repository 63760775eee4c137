package debugger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vburojevic/dynaspy/internal/domain"
	"github.com/vburojevic/dynaspy/internal/ledger"
	"github.com/vburojevic/dynaspy/internal/session"
)

// Dispatcher is the receive/interpret/respond loop of a session
type Dispatcher struct {
	platform Platform
	ledger   *ledger.Ledger
	resolver *Resolver
	session  *session.Session
	reporter Reporter
	log      *zap.Logger

	// images holds process image handles by pid until the process exits or
	// the session tears down.
	images map[uint32]*ledger.Tracked
}

// NewDispatcher wires a dispatcher for one session
func NewDispatcher(p Platform, l *ledger.Ledger, r *Resolver, s *session.Session, rep Reporter, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		platform: p,
		ledger:   l,
		resolver: r,
		session:  s,
		reporter: rep,
		log:      log,
		images:   make(map[uint32]*ledger.Tracked),
	}
}

// Run blocks on notifications until the root process exits or the debug
// protocol fails. A returned error is fatal; the session is then Terminated.
func (d *Dispatcher) Run() error {
	for {
		n, err := d.platform.WaitForNotification()
		if err != nil {
			d.session.Fail()
			return &ReceiveError{Err: err}
		}

		decision := d.Handle(n)
		if d.session.State() == domain.StateTerminating {
			// The root is gone; no continuation is owed for its exit.
			return nil
		}

		if err := d.platform.Continue(n.ProcessID, n.ThreadID, decision); err != nil {
			d.session.Fail()
			return &ContinuationError{ProcessID: n.ProcessID, ThreadID: n.ThreadID, Err: err}
		}
	}
}

// Handle interprets one notification and returns its continuation
func (d *Dispatcher) Handle(n domain.Notification) domain.Decision {
	d.session.Record(n)

	switch n.Kind {
	case domain.KindUnhandledException:
		d.log.Debug("Got an unhandled exception debug event, but we don't care.",
			zap.Uint32("pid", n.ProcessID),
			zap.String("code", hex32(n.ExceptionCode)),
			zap.Bool("first_chance", n.FirstChance),
		)
	case domain.KindProcessCreated:
		d.log.Debug("Process being created!", zap.Uint32("pid", n.ProcessID))
		d.adoptImage(n)
	case domain.KindThreadCreated:
		d.log.Debug("Thread being created!", zap.Uint32("pid", n.ProcessID), zap.Uint32("tid", n.ThreadID))
	case domain.KindProcessExited:
		d.log.Debug("Process exiting!", zap.Uint32("pid", n.ProcessID), zap.Uint32("exit_code", n.ExitCode))
		d.processExited(n)
	case domain.KindModuleLoaded:
		d.log.Debug("Loading a dll!", zap.Uint32("pid", n.ProcessID))
		d.moduleLoaded(n)
	default:
		d.log.Debug("Got an unhandled debug event, but we don't care.",
			zap.Uint32("pid", n.ProcessID),
			zap.Uint32("code", n.RawCode),
		)
	}
	return domain.DecisionFor(n.Kind)
}

func (d *Dispatcher) adoptImage(n domain.Notification) {
	if n.File == domain.InvalidHandle {
		return
	}
	// Closing the image handle before the process exits is not allowed, so it
	// stays in the ledger until then.
	if prev, ok := d.images[n.ProcessID]; ok {
		d.release(prev)
	}
	d.images[n.ProcessID] = d.ledger.Adopt(n.File, n.Kind)
	if d.session.IsRoot(n.ProcessID) {
		d.session.ObserveRootImage()
	}
}

func (d *Dispatcher) processExited(n domain.Notification) {
	if d.session.IsRoot(n.ProcessID) {
		d.log.Debug("Mark finished...", zap.Uint32("pid", n.ProcessID))
		d.session.BeginTermination()
		return
	}
	// The child's image handle is only needed while the child lives.
	if t, ok := d.images[n.ProcessID]; ok {
		delete(d.images, n.ProcessID)
		d.release(t)
	}
}

func (d *Dispatcher) moduleLoaded(n domain.Notification) {
	var path string
	var resolved bool
	if n.File != domain.InvalidHandle {
		t := d.ledger.Adopt(n.File, n.Kind)
		defer d.release(t)
		if h, err := t.Handle(); err == nil {
			path, resolved = d.resolver.Resolve(h)
		}
	}

	seq := d.session.RecordModule(resolved)
	m := domain.NewModuleLoad(d.session.ID(), d.session.Program(), n.ProcessID, seq, path, resolved, n.BaseAddress, d.session.Now())
	if err := d.reporter.ModuleLoaded(m); err != nil {
		d.log.Warn("failed to write module report", zap.Int("sequence", seq), zap.Error(err))
	}
}

func (d *Dispatcher) release(t *ledger.Tracked) {
	if err := d.ledger.Release(t); err != nil {
		d.log.Warn("failed to release handle", zap.Stringer("kind", t.Kind()), zap.Error(err))
	}
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}

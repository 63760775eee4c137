package debugger

import (
	"errors"
	"runtime"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/dynaspy/internal/ledger"
	"github.com/vburojevic/dynaspy/internal/session"
)

// Exit statuses returned by Controller.Run
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Options configures a Controller
type Options struct {
	Platform Platform
	Reporter Reporter
	Logger   *zap.Logger
	Clock    clock.Clock

	// MaxPath bounds the path buffer used to resolve module handles
	MaxPath int
	// VolumeFlags selects NT or DOS volume names for resolved paths
	VolumeFlags uint32
}

// Controller sequences launch, dispatch and teardown for one session
type Controller struct {
	opts Options
	log  *zap.Logger
}

// Result describes a finished session
type Result struct {
	ExitStatus int
	Launched   bool
	Launch     LaunchResult
	Session    *session.Session
	Handles    ledger.Stats
}

// NewController creates a controller
func NewController(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Controller{opts: opts, log: opts.Logger}
}

// Run launches program and dispatches its notifications until the root
// process exits. The error is a *LaunchError, *ContinuationError or
// *ReceiveError; teardown has already run when it is returned.
func (c *Controller) Run(program string, args []string) (Result, error) {
	// Debug events are delivered only to the thread that created the debuggee.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	sess := session.New(program, args, c.opts.Clock)
	hl := ledger.New(c.opts.Platform.CloseHandle, c.log)
	res := Result{Session: sess}

	launched, err := Launch(c.opts.Platform, program, args)
	if err != nil {
		sess.Fail()
		res.ExitStatus = ExitFailure
		res.Handles = hl.Stats()
		return res, err
	}
	res.Launched = true
	res.Launch = launched
	sess.Attach(launched.PID)
	c.log.Debug("Successfully launched",
		zap.String("program", program),
		zap.Strings("arguments", args),
		zap.Uint32("pid", launched.PID),
		zap.String("session_id", sess.ID()),
	)

	resolver := NewResolver(c.opts.Platform, c.opts.MaxPath, c.opts.VolumeFlags)
	dispatcher := NewDispatcher(c.opts.Platform, hl, resolver, sess, c.opts.Reporter, c.log)
	loopErr := dispatcher.Run()

	if err := hl.ReleaseAllRemaining(); err != nil && !errors.Is(err, ledger.ErrLedgerDrained) {
		c.log.Warn("failed to release remaining handles", zap.Error(err))
	}
	if err := c.opts.Reporter.Flush(); err != nil {
		c.log.Warn("failed to flush report", zap.Error(err))
	}
	sess.Finish()
	res.Handles = hl.Stats()

	if loopErr != nil {
		res.ExitStatus = ExitFailure
		return res, loopErr
	}
	res.ExitStatus = ExitOK
	return res, nil
}

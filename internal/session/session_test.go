package session

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/dynaspy/internal/domain"
)

func TestSessionLifecycle(t *testing.T) {
	clk := clock.NewMock()
	s := New(`C:\mark.exe`, []string{"-x"}, clk)

	require.NotEmpty(t, s.ID())
	assert.Equal(t, domain.StateRunning, s.State())
	assert.False(t, s.IsRoot(0), "no root before attach")

	s.Attach(42)
	assert.True(t, s.IsRoot(42))
	assert.False(t, s.IsRoot(43))

	s.BeginTermination()
	assert.Equal(t, domain.StateTerminating, s.State())

	s.Finish()
	assert.Equal(t, domain.StateTerminated, s.State())
	assert.Equal(t, domain.ReasonRootExit, s.Summary().Reason)
}

func TestSessionFailSkipsTerminating(t *testing.T) {
	s := New("mark.exe", nil, clock.NewMock())
	s.Attach(7)

	s.Fail()
	assert.Equal(t, domain.StateTerminated, s.State())

	// A late root exit must not resurrect the session.
	s.BeginTermination()
	assert.Equal(t, domain.StateTerminated, s.State())
	assert.Equal(t, domain.ReasonFatalError, s.Summary().Reason)
}

func TestSessionSummaryCounts(t *testing.T) {
	clk := clock.NewMock()
	s := New("mark.exe", nil, clk)
	s.Attach(100)

	s.Record(domain.NewThreadCreated(100, 2))
	s.Record(domain.NewUnhandledException(100, 2, 0x80000003, true))
	s.Record(domain.NewProcessExited(200, 3, 0))
	s.Record(domain.NewProcessExited(100, 1, 0))
	s.Record(domain.NewOther(100, 1, 8))
	assert.Equal(t, 1, s.RecordModule(true))
	assert.Equal(t, 2, s.RecordModule(false))

	clk.Add(1500 * time.Millisecond)

	sum := s.Summary()
	assert.Equal(t, "session_end", sum.Type)
	assert.Equal(t, uint32(100), sum.PID)
	assert.Equal(t, 2, sum.Modules)
	assert.Equal(t, 1, sum.Unresolved)
	assert.Equal(t, 1, sum.Threads)
	assert.Equal(t, 1, sum.Exceptions)
	assert.Equal(t, 1, sum.ChildExits)
	assert.Equal(t, 1, sum.OtherEvents)
	assert.InDelta(t, 1.5, sum.DurationSeconds, 0.001)
}

func TestSessionCopiesArgs(t *testing.T) {
	args := []string{"a", "b"}
	s := New("mark.exe", args, clock.NewMock())
	args[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, s.Args())
}

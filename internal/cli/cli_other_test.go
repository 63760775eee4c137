//go:build !windows

package cli

import (
	"bytes"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"

	"github.com/vburojevic/dynaspy/internal/config"
	"github.com/vburojevic/dynaspy/internal/platform"
)

func TestMainWithoutDebugAPI(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	globals := &Globals{
		Stdout:   stdout,
		Stderr:   stderr,
		Config:   config.Default(),
		Platform: platform.New(),
		Clock:    clock.New(),
	}

	assert.Equal(t, 1, Main([]string{"mark.exe"}, globals))
	assert.Equal(t, "Did not launch mark process with path mark.exe because debugging a program is only supported on Windows\n", stderr.String())
	assert.Empty(t, stdout.String())
}

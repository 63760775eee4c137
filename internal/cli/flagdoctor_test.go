package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFlags(t *testing.T) {
	stderr := &bytes.Buffer{}
	globals := &Globals{Stdout: &bytes.Buffer{}, Stderr: stderr}

	require.Error(t, validateFlags(globals, &CLI{Format: "text", MaxPath: 0}))
	assert.Contains(t, stderr.String(), "--max-path")

	require.Error(t, validateFlags(globals, &CLI{Format: "ndjson", MaxPath: 260, Summary: true}))

	require.NoError(t, validateFlags(globals, &CLI{Format: "text", MaxPath: 260, Summary: true}))
	require.NoError(t, validateFlags(globals, &CLI{Format: "ndjson", MaxPath: 32768}))
}

package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/dynaspy/internal/output"
)

// outputErrorCommon prints a message on stderr and, when the report is
// NDJSON, also records it there so consumers of the stream see the failure.
func outputErrorCommon(globals *Globals, ndjson *output.NDJSONWriter, code, message string, hint ...string) error {
	if ndjson != nil {
		_ = ndjson.WriteError(code, message, hint...)
	}
	if globals != nil {
		fmt.Fprintln(globals.Stderr, message)
	}
	return errors.New(message)
}

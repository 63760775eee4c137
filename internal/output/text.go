package output

import (
	"fmt"
	"io"

	"github.com/vburojevic/dynaspy/internal/domain"
)

type flusher interface {
	Flush() error
}

func flush(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// TextWriter writes one human-readable line per module load
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a text reporter
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// ModuleLoaded writes the report line and pushes it out immediately
func (t *TextWriter) ModuleLoaded(m *domain.ModuleLoad) error {
	var err error
	if m.Resolved {
		_, err = fmt.Fprintf(t.w, "%s loaded a DLL named %s\n", m.Program, m.Path)
	} else {
		_, err = fmt.Fprintf(t.w, "%s loaded a DLL but could not decipher its filename!\n", m.Program)
	}
	if err != nil {
		return err
	}
	return flush(t.w)
}

// SessionEnd is a no-op in text mode; the summary table goes to stderr
func (t *TextWriter) SessionEnd(*domain.SessionSummary) error { return nil }

// Flush flushes the underlying writer
func (t *TextWriter) Flush() error { return flush(t.w) }

package output

import (
	"encoding/json"
	"io"

	"github.com/vburojevic/dynaspy/internal/domain"
)

// NDJSONWriter writes one JSON object per line
type NDJSONWriter struct {
	w   io.Writer
	enc *json.Encoder
}

// NewNDJSONWriter creates an NDJSON reporter
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{w: w, enc: enc}
}

// ModuleLoaded writes a module_load record
func (n *NDJSONWriter) ModuleLoaded(m *domain.ModuleLoad) error {
	if err := n.enc.Encode(m); err != nil {
		return err
	}
	return flush(n.w)
}

// SessionEnd writes the session_end record
func (n *NDJSONWriter) SessionEnd(s *domain.SessionSummary) error {
	if err := n.enc.Encode(s); err != nil {
		return err
	}
	return flush(n.w)
}

// ErrorOutput is an error record
type ErrorOutput struct {
	Type          string `json:"type"` // "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// WriteError writes an error record
func (n *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	e := ErrorOutput{
		Type:          "error",
		SchemaVersion: domain.SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		e.Hint = hint[0]
	}
	if err := n.enc.Encode(e); err != nil {
		return err
	}
	return flush(n.w)
}

// Flush flushes the underlying writer
func (n *NDJSONWriter) Flush() error { return flush(n.w) }

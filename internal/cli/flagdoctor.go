package cli

import "fmt"

// validateFlags centralizes flag combinations kong cannot express.
func validateFlags(globals *Globals, c *CLI) error {
	if c.MaxPath <= 0 || c.MaxPath > 32768 {
		return outputErrorCommon(globals, nil, "INVALID_FLAGS", fmt.Sprintf("Error: --max-path must be between 1 and 32768, got %d", c.MaxPath))
	}
	// the table is a text-mode feature; ndjson always ends with session_end
	if c.Summary && c.Format == "ndjson" {
		return outputErrorCommon(globals, nil, "INVALID_FLAGS", "Error: --summary is only supported with text output (ndjson already ends with a session_end record)")
	}
	return nil
}

package debugger

import (
	"unicode/utf16"

	"github.com/vburojevic/dynaspy/internal/domain"
)

// Volume name styles understood by the final path query
const (
	VolumeNameDOS uint32 = 0x0
	VolumeNameNT  uint32 = 0x2
)

// DefaultMaxPath is the classic MAX_PATH buffer size
const DefaultMaxPath = 260

// Resolver recovers the path behind an open file handle, best effort
type Resolver struct {
	platform Platform
	maxPath  int
	flags    uint32
}

// NewResolver creates a resolver with a buffer of maxPath UTF-16 units
func NewResolver(p Platform, maxPath int, volumeFlags uint32) *Resolver {
	if maxPath <= 0 {
		maxPath = DefaultMaxPath
	}
	return &Resolver{platform: p, maxPath: maxPath, flags: volumeFlags}
}

// Resolve returns the path for h. It reports false when the query fails,
// returns nothing, or needs a larger buffer than allowed. It never retries
// and never closes h.
func (r *Resolver) Resolve(h domain.Handle) (string, bool) {
	buf := make([]uint16, r.maxPath)
	n, err := r.platform.FinalPathName(h, buf, r.flags)
	if err != nil || n == 0 || int(n) > len(buf) {
		return "", false
	}
	return string(utf16.Decode(buf[:n])), true
}

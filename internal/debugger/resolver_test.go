package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vburojevic/dynaspy/internal/domain"
)

func TestResolver(t *testing.T) {
	const h domain.Handle = 0x10

	tests := []struct {
		name    string
		setup   func(f *fakePlatform)
		maxPath int
		want    string
		wantOK  bool
	}{
		{
			name:   "resolves path",
			setup:  func(f *fakePlatform) { f.paths[h] = `\Device\HarddiskVolume3\Windows\System32\kernel32.dll` },
			want:   `\Device\HarddiskVolume3\Windows\System32\kernel32.dll`,
			wantOK: true,
		},
		{
			name:   "non-ASCII path",
			setup:  func(f *fakePlatform) { f.paths[h] = `C:\Programme\Grüße\ü.dll` },
			want:   `C:\Programme\Grüße\ü.dll`,
			wantOK: true,
		},
		{
			name:   "query fails",
			setup:  func(f *fakePlatform) {},
			wantOK: false,
		},
		{
			name:   "zero length",
			setup:  func(f *fakePlatform) { f.paths[h] = "" },
			wantOK: false,
		},
		{
			name:   "longer than the buffer",
			setup:  func(f *fakePlatform) { f.tooLong[h] = true },
			wantOK: false,
		},
		{
			name:    "longer than a custom buffer",
			setup:   func(f *fakePlatform) { f.paths[h] = `C:\a\long\path.dll` },
			maxPath: 8,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakePlatform(1)
			tt.setup(f)
			r := NewResolver(f, tt.maxPath, VolumeNameNT)

			got, ok := r.Resolve(h)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []domain.Handle{h}, f.queried, "exactly one query, no retry")
			assert.Empty(t, f.closed, "resolver never closes the handle")
		})
	}
}

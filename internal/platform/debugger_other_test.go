//go:build !windows

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStubIsUnsupported(t *testing.T) {
	d := New()

	_, err := d.CreateDebuggee("mark.exe", nil)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = d.WaitForNotification()
	assert.ErrorIs(t, err, ErrUnsupported)

	n, err := d.FinalPathName(1, make([]uint16, 4), 0)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Zero(t, n)
}

// Package platform binds the debug session to the operating system's
// process-debugging API.
package platform

import "errors"

// ErrUnsupported is returned on systems without the Win32 debug API
var ErrUnsupported = errors.New("debugging a program is only supported on Windows")

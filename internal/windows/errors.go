package windows

import "errors"

// ErrUnsupported is returned by every host operation on platforms other
// than Windows
var ErrUnsupported = errors.New("wizql requires Windows")

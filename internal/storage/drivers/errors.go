package drivers

import "errors"

// ErrNotFound is returned by Get when no object is stored under the key.
var ErrNotFound = errors.New("object not found")

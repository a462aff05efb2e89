package dispatch

import "errors"

// ErrNotLoaded is returned by local-only operations on a view that has nothing to change
var ErrNotLoaded = errors.New("view not loaded")

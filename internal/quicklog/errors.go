package quicklog

import "errors"

// ErrNoContext means no editor or buffer was available. Actions return it
// for logging only; hosts never show it.
var ErrNoContext = errors.New("no editor context")

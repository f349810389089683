package plugin

import "errors"

// ErrRunnerClosed is returned by a Runner after Close.
var ErrRunnerClosed = errors.New("script runner is closed")

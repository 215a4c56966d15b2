package review

import "errors"

// ErrUnknownAction indicates an action outside the known set.
var ErrUnknownAction = errors.New("unknown review action")

package selector

import "errors"

// ErrNoCandidates indicates the eligible set was empty after filtering.
// Reported upward, never silently resolved.
var ErrNoCandidates = errors.New("no eligible candidates")

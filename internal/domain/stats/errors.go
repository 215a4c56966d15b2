package stats

import "errors"

// ErrMigration indicates malformed legacy data encountered during a
// migration step. The affected record is skipped; migration continues.
var ErrMigration = errors.New("malformed legacy stats data")

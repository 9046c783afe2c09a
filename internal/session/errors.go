package session

import "errors"

// ErrProjectNotFound is returned when a command addresses a project id with
// no project row behind it.
var ErrProjectNotFound = errors.New("project not found")

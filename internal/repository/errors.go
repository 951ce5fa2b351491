// Package repository implements MySQL persistence for lessons, role
// entries and items.  Sentinel errors defined here let handlers map
// failure scenarios to HTTP status codes without inspecting SQL
// details: a missing lesson becomes a 404 while a role entry that
// does not belong to the target lesson is a caller mistake and
// becomes a 400.
package repository

import "errors"

// ErrLessonNotFound is returned when a lesson id does not exist or the
// lesson belongs to a different user.  The two cases are deliberately
// indistinguishable so ownership cannot be probed by id scanning.
var ErrLessonNotFound = errors.New("lesson not found")

// ErrRoleEntryNotFound is returned when a referenced role entry does
// not exist under the lesson being written to.  Handlers translate it
// into an HTTP 400, not 404: the lesson itself was found.
var ErrRoleEntryNotFound = errors.New("role entry not found for lesson")

package model

import "time"

// Lesson represents a single practice session in the journal.  A
// lesson belongs to exactly one user, happens on one calendar day and
// may carry the name of the practice form studied that day.  Role
// entries and items hang off a lesson and are never shared between
// lessons.
//
// PracticedOn is kept as a plain YYYY-MM-DD string: the column is a
// DATE with no time component, and formatting is done inside the
// query so the value survives round-trips without timezone drift.
type Lesson struct {
	ID           uint64    `json:"id"`            // lessons.id
	UserID       uint64    `json:"-"`             // lessons.user_id, never exposed
	PracticedOn  string    `json:"practiced_on"`  // lessons.practiced_on (YYYY-MM-DD)
	PracticeName *string   `json:"practice_name"` // lessons.practice_name, optional
	CreatedAt    time.Time `json:"-"`             // lessons.created_at
}

package model

import "time"

// Roles a participant can take during a lesson.  The value is stored
// verbatim in role_entries.role and drives which tab of the lesson
// detail an entry lands in.
const (
	RoleTeishu = "teishu" // host side: prepares and serves the tea
	RoleKyaku  = "kyaku"  // guest side: receives the tea
)

// ValidRole reports whether role is one of the accepted participant
// roles.
func ValidRole(role string) bool {
	return role == RoleTeishu || role == RoleKyaku
}

// RoleEntry records one participation in a lesson: the same lesson can
// hold several entries per role, one per round practiced.  TemaeName
// is the procedure practiced during that round; Note carries the
// teacher's remarks.
type RoleEntry struct {
	ID        uint64    `json:"id"`         // role_entries.id
	LessonID  uint64    `json:"lesson_id"`  // role_entries.lesson_id
	Role      string    `json:"role"`       // role_entries.role (teishu|kyaku)
	TemaeName *string   `json:"temae_name"` // role_entries.temae_name, optional
	Note      *string   `json:"note"`       // role_entries.note, optional
	CreatedAt time.Time `json:"created_at"` // role_entries.created_at
}

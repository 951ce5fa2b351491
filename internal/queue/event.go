// Package queue defines the lesson activity events exchanged over the
// message broker and the consumer that turns them into an activity log.
package queue

// ActivityQueueName is the durable queue all journal events go to.
const ActivityQueueName = "lesson.activity"

// Event kinds carried in ActivityEvent.Kind.
const (
	KindLessonCreated    = "lesson.created"
	KindRoleEntryCreated = "role_entry.created"
	KindItemAdded        = "item.added"
)

// ActivityEvent is published after a successful write to the journal.
// One shape covers all three kinds; fields that do not apply to a kind
// stay empty.  It carries enough context for downstream consumers to
// log or notify without querying the primary database.
type ActivityEvent struct {
	Kind         string `json:"kind"`
	LessonID     uint64 `json:"lesson_id"`
	PracticedOn  string `json:"practiced_on,omitempty"`
	PracticeName string `json:"practice_name,omitempty"`
	RoleEntryID  uint64 `json:"role_entry_id,omitempty"`
	Role         string `json:"role,omitempty"`
	TemaeName    string `json:"temae_name,omitempty"`
	ItemID       uint64 `json:"item_id,omitempty"`
	ItemType     string `json:"item_type,omitempty"`
	Section      string `json:"section,omitempty"`
	Mei          string `json:"mei,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}

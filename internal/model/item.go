package model

import "time"

// Sections an item can be filed under.  Items tied to a role entry
// inherit the section from the entry's role; unattached items default
// to the shared tea-room section.
const (
	SectionChashitsu = "chashitsu" // shared room setting: scroll, flowers, kettle
	SectionTeishu    = "teishu"    // utensils used by the host
	SectionKyaku     = "kyaku"     // utensils on the guest side
)

// ValidSection reports whether s is one of the accepted item sections.
func ValidSection(s string) bool {
	return s == SectionChashitsu || s == SectionTeishu || s == SectionKyaku
}

// SectionForRole resolves the section stored on a new item.  A teishu
// or kyaku role always wins, even over an explicit override; any other
// role falls back to the override when one was given, otherwise to the
// tea-room section.  Both arguments may be empty.
func SectionForRole(role, override string) string {
	switch role {
	case RoleTeishu:
		return SectionTeishu
	case RoleKyaku:
		return SectionKyaku
	}
	if override != "" {
		return override
	}
	return SectionChashitsu
}

// Item is one utensil, sweet or room fixture observed during a lesson.
// RoleEntryID is nil for items that describe the room itself rather
// than a participant's round.  SearchText is a denormalized blob built
// once at insert time; see BuildSearchText.
type Item struct {
	ID          uint64    `json:"id"`            // lesson_items.id
	LessonID    uint64    `json:"lesson_id"`     // lesson_items.lesson_id
	RoleEntryID *uint64   `json:"role_entry_id"` // lesson_items.role_entry_id, optional
	Section     string    `json:"section"`       // lesson_items.section
	ItemType    string    `json:"item_type"`     // lesson_items.item_type (chawan, chashaku, ...)
	Title       *string   `json:"title"`         // lesson_items.title, optional
	Mei         *string   `json:"mei"`           // lesson_items.mei (poetic name), optional
	Maker       *string   `json:"maker"`         // lesson_items.maker, optional
	Note        *string   `json:"note"`          // lesson_items.note, optional
	SearchText  string    `json:"search_text"`   // lesson_items.search_text
	CreatedAt   time.Time `json:"created_at"`    // lesson_items.created_at
}

package repository

import (
	"context"
	"time"

	"github.com/satomiya/keikocho/internal/model"
)

// LessonDetail is the tabbed view of one lesson: the shared tea-room
// items plus one group per recorded role entry, split into host and
// guest tabs.
type LessonDetail struct {
	Lesson LessonHeader `json:"lesson"`
	Tabs   LessonTabs   `json:"tabs"`
}

// LessonHeader is the lesson summary at the top of a detail response.
type LessonHeader struct {
	ID           uint64  `json:"id"`
	PracticedOn  string  `json:"practiced_on"`
	PracticeName *string `json:"practice_name"`
}

// LessonTabs holds the three fixed tabs of the detail view.
type LessonTabs struct {
	Chashitsu ItemTab  `json:"chashitsu"`
	Teishu    EntryTab `json:"teishu"`
	Kyaku     EntryTab `json:"kyaku"`
}

// ItemTab lists items that describe the room rather than a
// participant's round.
type ItemTab struct {
	Items []DetailItem `json:"items"`
}

// EntryTab lists the role entries of one side, each with its items.
type EntryTab struct {
	Entries []*DetailEntry `json:"entries"`
}

// DetailEntry is one round within a lesson together with the items
// used during it.
type DetailEntry struct {
	RoleEntryID uint64       `json:"role_entry_id"`
	Role        string       `json:"role"`
	TemaeName   *string      `json:"temae_name"`
	Note        *string      `json:"note"`
	CreatedAt   time.Time    `json:"created_at"`
	Items       []DetailItem `json:"items"`
}

// DetailItem is the wire shape of an item inside a detail response.
// The search blob stays internal.
type DetailItem struct {
	ItemID      uint64    `json:"item_id"`
	RoleEntryID *uint64   `json:"role_entry_id"`
	Section     string    `json:"section"`
	ItemType    string    `json:"item_type"`
	Title       *string   `json:"title"`
	Mei         *string   `json:"mei"`
	Maker       *string   `json:"maker"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// DetailByIDAndOwner loads one lesson with all of its role entries and
// items and groups them into the tab structure.  Returns
// ErrLessonNotFound when the lesson is missing or foreign.
func (r *LessonRepo) DetailByIDAndOwner(ctx context.Context, lessonID, ownerID uint64) (*LessonDetail, error) {
	lesson, err := r.GetByIDAndOwner(ctx, lessonID, ownerID)
	if err != nil {
		return nil, err
	}

	entries, err := r.roleEntriesOf(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	items, err := r.itemsOf(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	return &LessonDetail{
		Lesson: LessonHeader{
			ID:           lesson.ID,
			PracticedOn:  lesson.PracticedOn,
			PracticeName: lesson.PracticeName,
		},
		Tabs: groupLessonTabs(entries, items),
	}, nil
}

func (r *LessonRepo) roleEntriesOf(ctx context.Context, lessonID uint64) ([]model.RoleEntry, error) {
	const q = `
		SELECT id, lesson_id, role, temae_name, note, created_at
		FROM role_entries
		WHERE lesson_id = ?
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RoleEntry{}
	for rows.Next() {
		var e model.RoleEntry
		if err := rows.Scan(&e.ID, &e.LessonID, &e.Role, &e.TemaeName, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *LessonRepo) itemsOf(ctx context.Context, lessonID uint64) ([]model.Item, error) {
	const q = `
		SELECT id, lesson_id, role_entry_id, section, item_type, title, mei, maker, note, search_text, created_at
		FROM lesson_items
		WHERE lesson_id = ?
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.LessonID, &it.RoleEntryID, &it.Section, &it.ItemType,
			&it.Title, &it.Mei, &it.Maker, &it.Note, &it.SearchText, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// groupLessonTabs distributes entries and items over the three tabs.
// Items without a role entry land in the tea-room tab; an item whose
// role_entry_id points at a row that no longer exists lands there too
// instead of silently disappearing.  Entry order follows insertion
// order, items keep insertion order within their group.
func groupLessonTabs(entries []model.RoleEntry, items []model.Item) LessonTabs {
	ordered := make([]*DetailEntry, 0, len(entries))
	index := make(map[uint64]*DetailEntry, len(entries))
	for _, e := range entries {
		de := &DetailEntry{
			RoleEntryID: e.ID,
			Role:        e.Role,
			TemaeName:   e.TemaeName,
			Note:        e.Note,
			CreatedAt:   e.CreatedAt,
			Items:       []DetailItem{},
		}
		ordered = append(ordered, de)
		index[e.ID] = de
	}

	chashitsu := []DetailItem{}
	for _, it := range items {
		di := DetailItem{
			ItemID:      it.ID,
			RoleEntryID: it.RoleEntryID,
			Section:     it.Section,
			ItemType:    it.ItemType,
			Title:       it.Title,
			Mei:         it.Mei,
			Maker:       it.Maker,
			Note:        it.Note,
			CreatedAt:   it.CreatedAt,
		}
		if it.RoleEntryID == nil {
			chashitsu = append(chashitsu, di)
			continue
		}
		entry, ok := index[*it.RoleEntryID]
		if !ok {
			chashitsu = append(chashitsu, di)
			continue
		}
		entry.Items = append(entry.Items, di)
	}

	teishu := []*DetailEntry{}
	kyaku := []*DetailEntry{}
	for _, de := range ordered {
		switch de.Role {
		case model.RoleTeishu:
			teishu = append(teishu, de)
		case model.RoleKyaku:
			kyaku = append(kyaku, de)
		}
	}

	return LessonTabs{
		Chashitsu: ItemTab{Items: chashitsu},
		Teishu:    EntryTab{Entries: teishu},
		Kyaku:     EntryTab{Entries: kyaku},
	}
}

package repository

import (
	"context"
	"strings"
)

// Search pagination bounds.  The handler validates user input against
// these before building a query.
const (
	SearchLimitDefault = 50
	SearchLimitMax     = 200
)

// ItemSearchQuery defines filters & pagination for searching items
// across lessons.  Zero values mean "absent": an absent criterion
// never narrows the result.  Query is matched as a substring of the
// denormalized search_text blob; PracticeName as a substring of the
// lesson's practice name; ItemType and Section match exactly.
type ItemSearchQuery struct {
	Query        string
	Year         *int
	PracticeName string
	ItemType     string
	Section      string
	Limit        int
	Offset       int
}

// NormalizedQuery returns the free-text term with surrounding
// whitespace removed.  A blank term is treated as absent.
func (q ItemSearchQuery) NormalizedQuery() string {
	return strings.TrimSpace(q.Query)
}

// predicates returns the conjunctive WHERE fragments and their
// placeholder arguments for every present criterion, in a fixed order
// so the produced SQL is deterministic.
func (q ItemSearchQuery) predicates() ([]string, []any) {
	where := []string{}
	args := []any{}

	if term := q.NormalizedQuery(); term != "" {
		where = append(where, "i.search_text LIKE ?")
		args = append(args, "%"+term+"%")
	}
	if q.Year != nil {
		where = append(where, "YEAR(l.practiced_on) = ?")
		args = append(args, *q.Year)
	}
	if q.PracticeName != "" {
		where = append(where, "l.practice_name LIKE ?")
		args = append(args, "%"+q.PracticeName+"%")
	}
	if q.ItemType != "" {
		where = append(where, "i.item_type = ?")
		args = append(args, q.ItemType)
	}
	if q.Section != "" {
		where = append(where, "i.section = ?")
		args = append(args, q.Section)
	}
	return where, args
}

// ItemHit is one search result row: the owning lesson plus the matched
// item, shaped for the wire.
type ItemHit struct {
	LessonID     uint64  `json:"lesson_id"`
	PracticedOn  string  `json:"practiced_on"`
	PracticeName *string `json:"practice_name"`
	Item         HitItem `json:"item"`
}

// HitItem carries the item fields exposed by search results.  The
// search blob itself stays internal.
type HitItem struct {
	ItemID   uint64  `json:"item_id"`
	Section  string  `json:"section"`
	ItemType string  `json:"item_type"`
	Title    *string `json:"title"`
	Mei      *string `json:"mei"`
	Maker    *string `json:"maker"`
	Note     *string `json:"note"`
}

// Search runs the composed query over the owner's items.  Results come
// back newest practice day first, then newest item first, so two items
// from the same day keep insertion-reversed order.
func (r *ItemRepo) Search(ctx context.Context, ownerID uint64, q ItemSearchQuery) ([]ItemHit, error) {
	where, whereArgs := q.predicates()

	cond := "l.user_id = ?"
	if len(where) > 0 {
		cond += " AND " + strings.Join(where, " AND ")
	}
	args := append([]any{ownerID}, whereArgs...)
	args = append(args, q.Limit, q.Offset)

	dataSQL := `
		SELECT
			l.id,
			DATE_FORMAT(l.practiced_on, '%Y-%m-%d'),
			l.practice_name,
			i.id,
			i.section,
			i.item_type,
			i.title,
			i.mei,
			i.maker,
			i.note
		FROM lesson_items i
		JOIN lessons l ON l.id = i.lesson_id
		WHERE ` + cond + `
		ORDER BY l.practiced_on DESC, i.id DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ItemHit{}
	for rows.Next() {
		var h ItemHit
		if err := rows.Scan(
			&h.LessonID, &h.PracticedOn, &h.PracticeName,
			&h.Item.ItemID, &h.Item.Section, &h.Item.ItemType,
			&h.Item.Title, &h.Item.Mei, &h.Item.Maker, &h.Item.Note,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

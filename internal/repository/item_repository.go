package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/satomiya/keikocho/internal/model"
)

// ErrItemNotFound is returned when an item lookup matches nothing.
var ErrItemNotFound = errors.New("item not found")

// ItemRepo provides access to the lesson_items table.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo constructs an ItemRepo with the given pool.
func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// CreateTx inserts an item and fills in the generated id.  Section and
// search text must already be resolved by the caller.
func (r *ItemRepo) CreateTx(ctx context.Context, tx *sql.Tx, it *model.Item) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO lesson_items
			(lesson_id, role_entry_id, section, item_type, title, mei, maker, note, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.LessonID, it.RoleEntryID, it.Section, it.ItemType, it.Title, it.Mei, it.Maker, it.Note, it.SearchText,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// LatestByLesson returns the newest item of a lesson, used to echo
// back what was just written once the insert has committed.
func (r *ItemRepo) LatestByLesson(ctx context.Context, lessonID uint64) (*model.Item, error) {
	const q = `
		SELECT id, lesson_id, role_entry_id, section, item_type, title, mei, maker, note, search_text, created_at
		FROM lesson_items
		WHERE lesson_id = ?
		ORDER BY id DESC
		LIMIT 1`

	var it model.Item
	err := r.db.QueryRowContext(ctx, q, lessonID).
		Scan(&it.ID, &it.LessonID, &it.RoleEntryID, &it.Section, &it.ItemType,
			&it.Title, &it.Mei, &it.Maker, &it.Note, &it.SearchText, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

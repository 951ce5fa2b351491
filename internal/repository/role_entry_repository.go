package repository

import (
	"context"
	"database/sql"

	"github.com/satomiya/keikocho/internal/model"
)

// RoleEntryRepo provides access to the role_entries table.
type RoleEntryRepo struct {
	db *sql.DB
}

// NewRoleEntryRepo constructs a RoleEntryRepo with the given pool.
func NewRoleEntryRepo(db *sql.DB) *RoleEntryRepo {
	return &RoleEntryRepo{db: db}
}

// CreateTx inserts a role entry and fills in the generated id.
func (r *RoleEntryRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.RoleEntry) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO role_entries (lesson_id, role, temae_name, note) VALUES (?, ?, ?, ?)`,
		e.LessonID, e.Role, e.TemaeName, e.Note,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByIDAndLessonTx loads a role entry only if it hangs off the given
// lesson.  Returns ErrRoleEntryNotFound otherwise, which callers treat
// as a bad reference rather than a missing resource.
func (r *RoleEntryRepo) GetByIDAndLessonTx(ctx context.Context, tx *sql.Tx, entryID, lessonID uint64) (*model.RoleEntry, error) {
	const q = `
		SELECT id, lesson_id, role, temae_name, note, created_at
		FROM role_entries
		WHERE id = ? AND lesson_id = ?
		LIMIT 1`

	var e model.RoleEntry
	err := tx.QueryRowContext(ctx, q, entryID, lessonID).
		Scan(&e.ID, &e.LessonID, &e.Role, &e.TemaeName, &e.Note, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRoleEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LatestByLessonAndRole returns the newest entry for one role of a
// lesson.  Used to echo back what was just written once the insert has
// committed.
func (r *RoleEntryRepo) LatestByLessonAndRole(ctx context.Context, lessonID uint64, role string) (*model.RoleEntry, error) {
	const q = `
		SELECT id, lesson_id, role, temae_name, note, created_at
		FROM role_entries
		WHERE lesson_id = ? AND role = ?
		ORDER BY id DESC
		LIMIT 1`

	var e model.RoleEntry
	err := r.db.QueryRowContext(ctx, q, lessonID, role).
		Scan(&e.ID, &e.LessonID, &e.Role, &e.TemaeName, &e.Note, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRoleEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

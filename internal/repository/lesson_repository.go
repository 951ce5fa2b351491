package repository

import (
	"context"
	"database/sql"

	"github.com/satomiya/keikocho/internal/model"
)

// recentLessonsLimit caps the journal overview; older lessons stay
// reachable through search.
const recentLessonsLimit = 200

// LessonRepo provides access to the lessons table and the aggregate
// reads built on top of it (overview rows and the tabbed detail).
type LessonRepo struct {
	db *sql.DB
}

// NewLessonRepo constructs a LessonRepo with the given connection pool.
func NewLessonRepo(db *sql.DB) *LessonRepo {
	return &LessonRepo{db: db}
}

// DB exposes the underlying pool so handlers can open transactions
// that span repositories.
func (r *LessonRepo) DB() *sql.DB {
	return r.db
}

const lessonByIDAndOwnerSQL = `
	SELECT l.id, l.user_id, DATE_FORMAT(l.practiced_on, '%Y-%m-%d'), l.practice_name, l.created_at
	FROM lessons l
	WHERE l.id = ? AND l.user_id = ?
	LIMIT 1`

func scanLesson(row *sql.Row) (*model.Lesson, error) {
	var l model.Lesson
	err := row.Scan(&l.ID, &l.UserID, &l.PracticedOn, &l.PracticeName, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByIDAndOwner loads one lesson scoped to its owner.  Returns
// ErrLessonNotFound when the id is unknown or owned by someone else.
func (r *LessonRepo) GetByIDAndOwner(ctx context.Context, lessonID, ownerID uint64) (*model.Lesson, error) {
	return scanLesson(r.db.QueryRowContext(ctx, lessonByIDAndOwnerSQL, lessonID, ownerID))
}

// GetByIDAndOwnerTx is GetByIDAndOwner inside a caller-managed
// transaction, used to pin the lesson row while dependent records are
// written.
func (r *LessonRepo) GetByIDAndOwnerTx(ctx context.Context, tx *sql.Tx, lessonID, ownerID uint64) (*model.Lesson, error) {
	return scanLesson(tx.QueryRowContext(ctx, lessonByIDAndOwnerSQL, lessonID, ownerID))
}

// CreateTx inserts a lesson and fills in the generated id.
func (r *LessonRepo) CreateTx(ctx context.Context, tx *sql.Tx, l *model.Lesson) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO lessons (user_id, practiced_on, practice_name) VALUES (?, ?, ?)`,
		l.UserID, l.PracticedOn, l.PracticeName,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// LessonListRow is one line of the journal overview.  The latest
// non-empty temae per role is pulled up next to the lesson so the list
// can show what was practiced without loading each detail.
type LessonListRow struct {
	ID              uint64  `json:"id"`
	PracticedOn     string  `json:"practiced_on"`
	PracticeName    *string `json:"practice_name"`
	TeishuTemaeName *string `json:"teishu_temae_name"`
	KyakuTemaeName  *string `json:"kyaku_temae_name"`
}

// ListByOwner returns the owner's lessons, newest practice day first
// and newest id first within a day, capped at recentLessonsLimit.
func (r *LessonRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]LessonListRow, error) {
	const q = `
		SELECT
			l.id,
			DATE_FORMAT(l.practiced_on, '%Y-%m-%d'),
			l.practice_name,
			(SELECT re.temae_name FROM role_entries re
			  WHERE re.lesson_id = l.id AND re.role = 'teishu' AND re.temae_name IS NOT NULL
			  ORDER BY re.id DESC LIMIT 1) AS teishu_temae_name,
			(SELECT re.temae_name FROM role_entries re
			  WHERE re.lesson_id = l.id AND re.role = 'kyaku' AND re.temae_name IS NOT NULL
			  ORDER BY re.id DESC LIMIT 1) AS kyaku_temae_name
		FROM lessons l
		WHERE l.user_id = ?
		ORDER BY l.practiced_on DESC, l.id DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, q, ownerID, recentLessonsLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LessonListRow{}
	for rows.Next() {
		var row LessonListRow
		if err := rows.Scan(&row.ID, &row.PracticedOn, &row.PracticeName, &row.TeishuTemaeName, &row.KyakuTemaeName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satomiya/keikocho/internal/model"
)

func TestLessonGetByIDAndOwner_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLessonRepo(db)

	mock.ExpectQuery(`FROM lessons l\s+WHERE l.id = \? AND l.user_id = \?`).
		WithArgs(uint64(9), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "practiced_on", "practice_name", "created_at"}))

	_, err := repo.GetByIDAndOwner(context.Background(), 9, 1)
	assert.ErrorIs(t, err, ErrLessonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonCreateTx_FillsGeneratedID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLessonRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO lessons \(user_id, practiced_on, practice_name\)`).
		WithArgs(uint64(1), "2024-06-01", "usucha keiko").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	l := &model.Lesson{UserID: 1, PracticedOn: "2024-06-01", PracticeName: strPtr("usucha keiko")}
	require.NoError(t, repo.CreateTx(context.Background(), tx, l))
	require.NoError(t, tx.Commit())

	assert.Equal(t, uint64(42), l.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonListByOwner_MapsLatestTemaePerRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLessonRepo(db)

	rows := sqlmock.NewRows([]string{"id", "practiced_on", "practice_name", "teishu_temae_name", "kyaku_temae_name"}).
		AddRow(8, "2024-06-02", nil, "koicha", nil).
		AddRow(7, "2024-06-01", "usucha keiko", nil, "haiken")

	mock.ExpectQuery(`FROM lessons l\s+WHERE l.user_id = \?\s+ORDER BY l.practiced_on DESC, l.id DESC`).
		WithArgs(uint64(1), recentLessonsLimit).
		WillReturnRows(rows)

	list, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, uint64(8), list[0].ID)
	assert.Nil(t, list[0].PracticeName)
	assert.Equal(t, "koicha", *list[0].TeishuTemaeName)
	assert.Nil(t, list[0].KyakuTemaeName)

	assert.Equal(t, "usucha keiko", *list[1].PracticeName)
	assert.Nil(t, list[1].TeishuTemaeName)
	assert.Equal(t, "haiken", *list[1].KyakuTemaeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleEntryGetByIDAndLessonTx_WrongLesson(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoleEntryRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM role_entries\s+WHERE id = \? AND lesson_id = \?`).
		WithArgs(uint64(3), uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lesson_id", "role", "temae_name", "note", "created_at"}))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = repo.GetByIDAndLessonTx(context.Background(), tx, 3, 99)
	assert.ErrorIs(t, err, ErrRoleEntryNotFound)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleEntryLatestByLessonAndRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoleEntryRepo(db)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE lesson_id = \? AND role = \?\s+ORDER BY id DESC\s+LIMIT 1`).
		WithArgs(uint64(5), "teishu").
		WillReturnRows(sqlmock.NewRows([]string{"id", "lesson_id", "role", "temae_name", "note", "created_at"}).
			AddRow(12, 5, "teishu", "usucha", nil, now))

	e, err := repo.LatestByLessonAndRole(context.Background(), 5, "teishu")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), e.ID)
	assert.Equal(t, "usucha", *e.TemaeName)
	assert.Equal(t, now, e.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemLatestByLesson_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepo(db)

	mock.ExpectQuery(`FROM lesson_items\s+WHERE lesson_id = \?\s+ORDER BY id DESC\s+LIMIT 1`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lesson_id", "role_entry_id", "section", "item_type", "title", "mei", "maker", "note", "search_text", "created_at"}))

	_, err := repo.LatestByLesson(context.Background(), 5)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satomiya/keikocho/internal/repository"
)

func newSearchHandler(t *testing.T) (*SearchHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewSearchHandler(repository.NewItemRepo(db), testOwnerID), mock
}

func getSearch(t *testing.T, h *SearchHandler, target string) (int, map[string]any) {
	t.Helper()
	c, rec := newContext(t, http.MethodGet, target, "")
	c.SetPath("/search")
	require.NoError(t, h.Search(c))
	return rec.Code, decodeBody(t, rec)
}

func searchResultRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "practiced_on", "practice_name",
		"id", "section", "item_type", "title", "mei", "maker", "note",
	})
}

func TestSearch_DefaultsAndShape(t *testing.T) {
	h, mock := newSearchHandler(t)

	mock.ExpectQuery(`WHERE l.user_id = \?\s+ORDER BY`).
		WithArgs(testOwnerID, 50, 0).
		WillReturnRows(searchResultRows().
			AddRow(7, "2024-06-01", "usucha keiko", 31, "teishu", "chawan", nil, "山里", "Yamazato", nil))

	code, body := getSearch(t, h, "/search")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(50), body["limit"])
	assert.Equal(t, float64(0), body["offset"])

	filters := body["filters"].(map[string]any)
	assert.Nil(t, filters["query"])
	assert.Nil(t, filters["year"])
	assert.Nil(t, filters["practice_name"])
	assert.Nil(t, filters["item_type"])
	assert.Nil(t, filters["section"])

	results := body["results"].([]any)
	require.Len(t, results, 1)
	hit := results[0].(map[string]any)
	assert.Equal(t, float64(7), hit["lesson_id"])
	item := hit["item"].(map[string]any)
	assert.Equal(t, float64(31), item["item_id"])
	assert.Equal(t, "山里", item["mei"])
	assert.NotContains(t, item, "search_text")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_WhitespaceQueryIgnoredButEchoed(t *testing.T) {
	h, mock := newSearchHandler(t)

	// The SQL carries no search_text predicate: only owner, limit and
	// offset are bound.
	mock.ExpectQuery(`WHERE l.user_id = \?\s+ORDER BY`).
		WithArgs(testOwnerID, 50, 0).
		WillReturnRows(searchResultRows())

	code, body := getSearch(t, h, "/search?query=%20%20%20")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["count"])
	filters := body["filters"].(map[string]any)
	assert.Equal(t, "   ", filters["query"], "the raw input comes back, not the normalized term")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_AllFiltersBound(t *testing.T) {
	h, mock := newSearchHandler(t)

	mock.ExpectQuery(`i.search_text LIKE \?.*YEAR\(l.practiced_on\) = \?`).
		WithArgs(testOwnerID, "%Yamazato%", 2024, "%usucha%", "chawan", "teishu", 10, 20).
		WillReturnRows(searchResultRows())

	code, body := getSearch(t, h,
		"/search?query=Yamazato&year=2024&practice_name=usucha&item_type=chawan&section=teishu&limit=10&offset=20")

	require.Equal(t, http.StatusOK, code)
	filters := body["filters"].(map[string]any)
	assert.Equal(t, "Yamazato", filters["query"])
	assert.Equal(t, float64(2024), filters["year"])
	assert.Equal(t, "teishu", filters["section"])
	assert.Equal(t, float64(10), body["limit"])
	assert.Equal(t, float64(20), body["offset"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_RejectsBadPagination(t *testing.T) {
	h, mock := newSearchHandler(t)

	for _, target := range []string{
		"/search?limit=0",
		"/search?limit=201",
		"/search?limit=abc",
		"/search?offset=-1",
		"/search?offset=x",
		"/search?year=twenty",
		"/search?section=tokonoma",
	} {
		code, _ := getSearch(t, h, target)
		assert.Equal(t, http.StatusBadRequest, code, "target %s", target)
	}
	assert.NoError(t, mock.ExpectationsWereMet(), "invalid parameters never hit the database")
}

func TestSearch_CountIsReturnedRows(t *testing.T) {
	h, mock := newSearchHandler(t)

	rows := searchResultRows()
	for i := 0; i < 3; i++ {
		rows.AddRow(7, "2024-06-01", nil, 40+i, "chashitsu", "kakejiku", nil, nil, nil, nil)
	}
	mock.ExpectQuery(`WHERE l.user_id = \?`).
		WithArgs(testOwnerID, 2, 0).
		WillReturnRows(rows)

	code, body := getSearch(t, h, "/search?limit=2")

	require.Equal(t, http.StatusOK, code)
	// The mock returns three rows; a real database honors LIMIT.  The
	// count mirrors what is in results, it is not a total.
	assert.Equal(t, float64(3), body["count"])
	assert.Len(t, body["results"].([]any), 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

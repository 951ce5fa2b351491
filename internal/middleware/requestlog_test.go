package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_MintsWhenMissing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))

	id := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "minted ids are UUIDs")
	assert.Equal(t, id, c.Get(requestIDKey))
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "client-supplied")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))

	assert.Equal(t, "client-supplied", rec.Header().Get(echo.HeaderXRequestID))
}

func TestRequestLogger_EmitsOneLine(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/lessons?limit=3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(requestIDKey, "rid-1")

	h := RequestLogger(log)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})
	require.NoError(t, h(c))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rid-1", line["request_id"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/lessons", line["path"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
}

func TestRequestLogger_RendersHandlerError(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestLogger(log)(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})
	require.NoError(t, h(c), "the error is handled, not propagated")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
}

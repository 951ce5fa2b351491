package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/satomiya/keikocho/internal/database"
	"github.com/satomiya/keikocho/internal/model"
	"github.com/satomiya/keikocho/internal/queue"
	"github.com/satomiya/keikocho/internal/repository"
	"github.com/satomiya/keikocho/internal/service"
)

// practicedOnLayout is the only accepted date format for lessons.
const practicedOnLayout = "2006-01-02"

// LessonHandler serves lesson creation, the journal overview and the
// tabbed lesson detail.  OwnerID scopes every query; the journal is
// single-user, so it comes from configuration instead of a session.
type LessonHandler struct {
	Lessons *repository.LessonRepo
	Events  *service.ActivityPublisher
	OwnerID uint64
}

// NewLessonHandler constructs a LessonHandler.
func NewLessonHandler(lessons *repository.LessonRepo, events *service.ActivityPublisher, ownerID uint64) *LessonHandler {
	return &LessonHandler{Lessons: lessons, Events: events, OwnerID: ownerID}
}

// Create handles POST /lessons.  The response echoes the validated
// input together with the generated id.
func (h *LessonHandler) Create(c echo.Context) error {
	var body struct {
		PracticedOn  string  `json:"practiced_on"`
		PracticeName *string `json:"practice_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	practicedOn := strings.TrimSpace(body.PracticedOn)
	if _, err := time.Parse(practicedOnLayout, practicedOn); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "practiced_on must be a YYYY-MM-DD date"})
	}

	lesson := &model.Lesson{
		UserID:       h.OwnerID,
		PracticedOn:  practicedOn,
		PracticeName: body.PracticeName,
	}

	ctx := c.Request().Context()
	err := database.WithinTx(ctx, h.Lessons.DB(), func(tx *sql.Tx) error {
		return h.Lessons.CreateTx(ctx, tx, lesson)
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	_ = h.Events.Publish(ctx, queue.ActivityEvent{
		Kind:         queue.KindLessonCreated,
		LessonID:     lesson.ID,
		PracticedOn:  lesson.PracticedOn,
		PracticeName: deref(lesson.PracticeName),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"lesson_id":     lesson.ID,
		"practiced_on":  lesson.PracticedOn,
		"practice_name": lesson.PracticeName,
	})
}

// List handles GET /lessons: the journal overview, newest first.
func (h *LessonHandler) List(c echo.Context) error {
	rows, err := h.Lessons.ListByOwner(c.Request().Context(), h.OwnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// Detail handles GET /lessons/:id and returns the tabbed structure.
func (h *LessonHandler) Detail(c echo.Context) error {
	lessonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lesson id"})
	}

	detail, err := h.Lessons.DetailByIDAndOwner(c.Request().Context(), lessonID, h.OwnerID)
	if err == repository.ErrLessonNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Lesson not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, detail)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package handler

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/satomiya/keikocho/internal/database"
	"github.com/satomiya/keikocho/internal/model"
	"github.com/satomiya/keikocho/internal/queue"
	"github.com/satomiya/keikocho/internal/repository"
	"github.com/satomiya/keikocho/internal/service"
)

// RoleEntryHandler serves POST /lessons/:id/role-entries.
type RoleEntryHandler struct {
	Lessons *repository.LessonRepo
	Entries *repository.RoleEntryRepo
	Events  *service.ActivityPublisher
	OwnerID uint64
}

// NewRoleEntryHandler constructs a RoleEntryHandler.
func NewRoleEntryHandler(lessons *repository.LessonRepo, entries *repository.RoleEntryRepo, events *service.ActivityPublisher, ownerID uint64) *RoleEntryHandler {
	return &RoleEntryHandler{Lessons: lessons, Entries: entries, Events: events, OwnerID: ownerID}
}

// Create validates the lesson, writes the entry and echoes back the
// persisted row.  The echo re-reads the newest entry for the lesson
// and role after commit, so it reflects what the table actually holds.
func (h *RoleEntryHandler) Create(c echo.Context) error {
	lessonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lesson id"})
	}

	var body struct {
		Role      string  `json:"role"`
		TemaeName *string `json:"temae_name"`
		Note      *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !model.ValidRole(body.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be teishu or kyaku"})
	}

	entry := &model.RoleEntry{
		LessonID:  lessonID,
		Role:      body.Role,
		TemaeName: body.TemaeName,
		Note:      body.Note,
	}

	ctx := c.Request().Context()
	err = database.WithinTx(ctx, h.Lessons.DB(), func(tx *sql.Tx) error {
		if _, err := h.Lessons.GetByIDAndOwnerTx(ctx, tx, lessonID, h.OwnerID); err != nil {
			return err
		}
		return h.Entries.CreateTx(ctx, tx, entry)
	})
	if err == repository.ErrLessonNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Lesson not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	created, err := h.Entries.LatestByLessonAndRole(ctx, lessonID, body.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	_ = h.Events.Publish(ctx, queue.ActivityEvent{
		Kind:        queue.KindRoleEntryCreated,
		LessonID:    lessonID,
		RoleEntryID: created.ID,
		Role:        created.Role,
		TemaeName:   deref(created.TemaeName),
	})

	return c.JSON(http.StatusCreated, echo.Map{"role_entry": created})
}

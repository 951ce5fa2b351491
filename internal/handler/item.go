package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satomiya/keikocho/internal/database"
	"github.com/satomiya/keikocho/internal/model"
	"github.com/satomiya/keikocho/internal/queue"
	"github.com/satomiya/keikocho/internal/repository"
	"github.com/satomiya/keikocho/internal/service"
)

// ItemHandler serves POST /lessons/:id/items.  Adding an item resolves
// its section from the attached role entry, builds the search blob and
// writes the row, all inside one transaction so a failed validation
// never leaves a partial insert behind.
type ItemHandler struct {
	Lessons *repository.LessonRepo
	Entries *repository.RoleEntryRepo
	Items   *repository.ItemRepo
	Events  *service.ActivityPublisher
	OwnerID uint64
}

// NewItemHandler constructs an ItemHandler.
func NewItemHandler(lessons *repository.LessonRepo, entries *repository.RoleEntryRepo, items *repository.ItemRepo, events *service.ActivityPublisher, ownerID uint64) *ItemHandler {
	return &ItemHandler{Lessons: lessons, Entries: entries, Items: items, Events: events, OwnerID: ownerID}
}

// Create handles POST /lessons/:id/items.
//
// Rules, in order:
//   - the lesson must exist and belong to the owner (404 otherwise)
//   - a given role_entry_id must belong to that lesson (400 otherwise)
//   - the section comes from the entry's role; the explicit section
//     field only applies to unattached items or unknown roles
//   - search_text is assembled once from the resolved values
func (h *ItemHandler) Create(c echo.Context) error {
	lessonID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lesson id"})
	}

	var body struct {
		RoleEntryID *uint64 `json:"role_entry_id"`
		Section     *string `json:"section"`
		ItemType    string  `json:"item_type"`
		Title       *string `json:"title"`
		Mei         *string `json:"mei"`
		Maker       *string `json:"maker"`
		Note        *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	itemType := strings.TrimSpace(body.ItemType)
	if itemType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item_type is required"})
	}
	sectionOverride := ""
	if body.Section != nil {
		if !model.ValidSection(*body.Section) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "section must be chashitsu, teishu or kyaku"})
		}
		sectionOverride = *body.Section
	}

	item := &model.Item{
		LessonID:    lessonID,
		RoleEntryID: body.RoleEntryID,
		ItemType:    itemType,
		Title:       body.Title,
		Mei:         body.Mei,
		Maker:       body.Maker,
		Note:        body.Note,
	}

	ctx := c.Request().Context()
	err = database.WithinTx(ctx, h.Lessons.DB(), func(tx *sql.Tx) error {
		lesson, err := h.Lessons.GetByIDAndOwnerTx(ctx, tx, lessonID, h.OwnerID)
		if err != nil {
			return err
		}

		temaeName := ""
		if body.RoleEntryID != nil {
			entry, err := h.Entries.GetByIDAndLessonTx(ctx, tx, *body.RoleEntryID, lessonID)
			if err != nil {
				return err
			}
			item.Section = model.SectionForRole(entry.Role, sectionOverride)
			temaeName = deref(entry.TemaeName)
		} else {
			item.Section = model.SectionForRole("", sectionOverride)
		}

		item.SearchText = model.BuildSearchText(
			item.Section,
			temaeName,
			item.ItemType,
			deref(item.Title),
			deref(item.Mei),
			deref(item.Maker),
			deref(item.Note),
			deref(lesson.PracticeName),
		)

		return h.Items.CreateTx(ctx, tx, item)
	})
	if err == repository.ErrLessonNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Lesson not found"})
	}
	if err == repository.ErrRoleEntryNotFound {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid role_entry_id for this lesson"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	created, err := h.Items.LatestByLesson(ctx, lessonID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	_ = h.Events.Publish(ctx, queue.ActivityEvent{
		Kind:     queue.KindItemAdded,
		LessonID: lessonID,
		ItemID:   created.ID,
		ItemType: created.ItemType,
		Section:  created.Section,
		Mei:      deref(created.Mei),
	})

	return c.JSON(http.StatusCreated, echo.Map{"item": created})
}

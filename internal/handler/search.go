package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/satomiya/keikocho/internal/model"
	"github.com/satomiya/keikocho/internal/repository"
)

// SearchHandler serves GET /search, the cross-lesson item search.
type SearchHandler struct {
	Items   *repository.ItemRepo
	OwnerID uint64
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(items *repository.ItemRepo, ownerID uint64) *SearchHandler {
	return &SearchHandler{Items: items, OwnerID: ownerID}
}

// Search combines the free-text query with the structured filters.
// Every parameter is optional; an absent one never narrows the result.
// The response echoes the filters verbatim so the client can render
// its search state from the answer alone.
func (h *SearchHandler) Search(c echo.Context) error {
	params := c.QueryParams()

	limit := repository.SearchLimitDefault
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > repository.SearchLimitMax {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 200"})
		}
		limit = n
	}

	offset := 0
	if raw := params.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "offset must be zero or positive"})
		}
		offset = n
	}

	var year *int
	if raw := params.Get("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "year must be a number"})
		}
		year = &n
	}

	if s := params.Get("section"); s != "" && !model.ValidSection(s) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "section must be chashitsu, teishu or kyaku"})
	}

	q := repository.ItemSearchQuery{
		Query:        params.Get("query"),
		Year:         year,
		PracticeName: params.Get("practice_name"),
		ItemType:     params.Get("item_type"),
		Section:      params.Get("section"),
		Limit:        limit,
		Offset:       offset,
	}

	results, err := h.Items.Search(c.Request().Context(), h.OwnerID, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	// The filters block echoes the raw input, not the normalized
	// values the query ran with.
	strParam := func(name string) *string {
		if vals, ok := params[name]; ok && len(vals) > 0 {
			return &vals[0]
		}
		return nil
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":  len(results),
		"limit":  limit,
		"offset": offset,
		"filters": echo.Map{
			"query":         strParam("query"),
			"year":          year,
			"practice_name": strParam("practice_name"),
			"item_type":     strParam("item_type"),
			"section":       strParam("section"),
		},
		"results": results,
	})
}

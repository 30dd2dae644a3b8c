package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wardeiling/FreeWise/internal/review"
)

// FavouritesController lists favorited highlights and restores highlights
// (favorited or discarded) back to active rotation.
type FavouritesController struct {
	favourites FavouritesStore
	states     ReviewStateStore
}

func NewFavouritesController(favourites FavouritesStore, states ReviewStateStore) *FavouritesController {
	return &FavouritesController{favourites: favourites, states: states}
}

// ListFavourites handles GET /api/highlights/favourites?limit=&offset=
func (fc *FavouritesController) ListFavourites(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	highlights, total, err := fc.favourites.GetFavouriteHighlights(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list favourites")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    highlights,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(highlights)) < total,
	})
}

// RestoreHighlight handles POST /api/highlights/:id/restore. A discarded or
// favorited highlight returns to active; restoring an active highlight is an
// invalid transition. Restore is also the only path from discarded towards
// favorited: the highlight must pass through active again.
func (fc *FavouritesController) RestoreHighlight(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := fc.states.Restore(id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, "highlight")
	case errors.Is(err, review.ErrInvalidTransition):
		respondConflict(c, err.Error())
	case err != nil:
		respondInternalError(c, err, "restore highlight")
	default:
		respondSuccess(c, "highlight restored")
	}
}

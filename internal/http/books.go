package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BooksController serves the book CRUD surface: listing with sorts, detail,
// user edits (including the per-book frequency weight) and the explicit
// cascade delete.
type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

// ListBooks handles GET /api/books?sort=title|author|highlights|updated
func (bc *BooksController) ListBooks(c *gin.Context) {
	list, err := bc.store.ListBooks(c.Query("sort"))
	if err != nil {
		if c.Query("sort") != "" {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": list, "count": len(list)})
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// UpdateBookRequest carries user edits; nil fields stay untouched.
type UpdateBookRequest struct {
	Title           *string  `json:"title"`
	Author          *string  `json:"author"`
	FrequencyWeight *float64 `json:"frequency_weight"`
}

// UpdateBook handles PATCH /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	fields := make(map[string]any)
	if req.Title != nil {
		if *req.Title == "" {
			respondBadRequest(c, "title cannot be empty")
			return
		}
		fields["title"] = *req.Title
	}
	if req.Author != nil {
		fields["author"] = *req.Author
	}
	if req.FrequencyWeight != nil {
		if *req.FrequencyWeight <= 0 {
			respondBadRequest(c, "frequency_weight must be positive")
			return
		}
		fields["frequency_weight"] = *req.FrequencyWeight
	}
	if len(fields) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	err := bc.store.UpdateBook(id, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	respondSuccess(c, "book updated")
}

// DeleteBook handles DELETE /api/books/:id. Removes the book and all of its
// highlights; this is the only way a book disappears.
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.store.DeleteBook(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

// ListBookHighlights handles GET /api/books/:id/highlights?sort=location|date.
// The date sort excludes highlights without a highlighted-at timestamp.
func (bc *BooksController) ListBookHighlights(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := bc.store.GetBookByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	} else if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	sort := c.DefaultQuery("sort", "location")
	var (
		highlights any
		err        error
	)
	switch sort {
	case "location":
		highlights, err = bc.store.FindHighlightsByBook(id)
	case "date":
		highlights, err = bc.store.FindHighlightsByBookByDate(id)
	default:
		respondBadRequest(c, "unknown sort key "+sort)
		return
	}
	if err != nil {
		respondInternalError(c, err, "list book highlights")
		return
	}
	c.JSON(http.StatusOK, gin.H{"highlights": highlights})
}

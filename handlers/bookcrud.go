package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bookRepo "inkbook/database/repository/book"
	"inkbook/middleware"
	"inkbook/models"
	"inkbook/utils"
)

// BookHandler serves the artist-facing book CRUD endpoints.
type BookHandler struct {
	Books bookRepo.Repository
}

func NewBookHandler(books bookRepo.Repository) *BookHandler {
	return &BookHandler{Books: books}
}

// CreateBook publishes a new book for the authenticated artist.
// POST /api/artist/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req models.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	book := &models.Book{
		ArtistID:        middleware.CallerID(c),
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		DepositAmount:   req.DepositAmount,
		Currency:        req.Currency,
		Active:          true,
	}
	if err := h.Books.Create(c.Request.Context(), book); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create book", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// GetBook returns a book by id.
// GET /api/books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID := c.Param("id")
	book, err := h.Books.GetByID(c.Request.Context(), bookID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch book", err.Error())
		return
	}
	if book == nil {
		utils.JSONError(c, http.StatusNotFound, "book not found", bookID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// ListMyBooks returns the authenticated artist's books.
// GET /api/artist/books
func (h *BookHandler) ListMyBooks(c *gin.Context) {
	books, err := h.Books.ListByArtist(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list books", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// DeleteBook removes a book. Existing reservations keep their records;
// deletion policy for them is outside the engine.
// DELETE /api/artist/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID := c.Param("id")
	if err := h.Books.Delete(c.Request.Context(), bookID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "book not found", bookID)
		return
	}
	c.Status(http.StatusNoContent)
}

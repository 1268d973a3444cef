package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/book-catalog-api/internal/api"
	"github.com/FACorreiaa/book-catalog-api/internal/types"
)

const defaultPageSize = 10

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListBooks(w http.ResponseWriter, r *http.Request)
	GetBook(w http.ResponseWriter, r *http.Request)
	CreateBook(w http.ResponseWriter, r *http.Request)
	UpdateBook(w http.ResponseWriter, r *http.Request)
	DeleteBook(w http.ResponseWriter, r *http.Request)
	SearchBooks(w http.ResponseWriter, r *http.Request)
	ListBooksPaged(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	bookService BookService
	logger      *slog.Logger
}

func NewHandlerImpl(bookService BookService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		bookService: bookService,
		logger:      logger,
	}
}

func bookIDFromURL(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// ListBooks godoc
// @Summary      List Books
// @Tags         Books
// @Produce      json
// @Success      200 {array} types.Book "Catalog"
// @Security     BearerAuth
// @Router       /books [get]
func (h *HandlerImpl) ListBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListBooks"))

	books, err := h.bookService.ListBooks(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list books", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve books")
		return
	}
	if books == nil {
		books = []types.Book{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, books)
}

// GetBook godoc
// @Summary      Get Book
// @Tags         Books
// @Produce      json
// @Success      200 {object} types.Book "Book"
// @Failure      404 {object} map[string]interface{} "Not Found"
// @Security     BearerAuth
// @Router       /books/{id} [get]
func (h *HandlerImpl) GetBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetBook"))

	id, err := bookIDFromURL(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid book id")
		return
	}

	b, err := h.bookService.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Book not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get book", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve book")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, b)
}

// CreateBook godoc
// @Summary      Create Book
// @Tags         Books
// @Accept       json
// @Produce      json
// @Success      201 {object} types.Book "Created"
// @Failure      400 {object} map[string]interface{} "Invalid Input"
// @Security     BearerAuth
// @Router       /books [post]
func (h *HandlerImpl) CreateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateBook"))

	var params types.BookParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.bookService.CreateBook(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create book", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create book")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// UpdateBook godoc
// @Summary      Update Book
// @Tags         Books
// @Accept       json
// @Success      204 "Updated"
// @Failure      404 {object} map[string]interface{} "Not Found"
// @Security     BearerAuth
// @Router       /books/{id} [put]
func (h *HandlerImpl) UpdateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateBook"))

	id, err := bookIDFromURL(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid book id")
		return
	}

	var params types.BookParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.bookService.UpdateBook(ctx, id, params); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Book not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update book", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update book")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// DeleteBook godoc
// @Summary      Delete Book
// @Tags         Books
// @Success      204 "Deleted"
// @Failure      404 {object} map[string]interface{} "Not Found"
// @Security     BearerAuth
// @Router       /books/{id} [delete]
func (h *HandlerImpl) DeleteBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteBook"))

	id, err := bookIDFromURL(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid book id")
		return
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Book not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete book", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete book")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// SearchBooks godoc
// @Summary      Search Books
// @Description  Case-insensitive substring match against title and author.
// @Tags         Books
// @Produce      json
// @Param        q query string true "search term"
// @Success      200 {array} types.Book "Matches"
// @Failure      400 {object} map[string]interface{} "Missing q"
// @Security     BearerAuth
// @Router       /books/search [get]
func (h *HandlerImpl) SearchBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SearchBooks"))

	q := r.URL.Query().Get("q")
	results, err := h.bookService.SearchBooks(ctx, q)
	if err != nil {
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'q' is required.")
			return
		}
		l.ErrorContext(ctx, "Failed to search books", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search books")
		return
	}
	if results == nil {
		results = []types.Book{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, results)
}

// ListBooksPaged godoc
// @Summary      List Books Paged
// @Tags         Books
// @Produce      json
// @Param        page query int false "1-based page number (default 1)"
// @Param        pageSize query int false "items per page (default 10)"
// @Success      200 {object} api.PageResponse[types.Book] "Page"
// @Failure      400 {object} map[string]interface{} "Invalid Params"
// @Failure      500 {object} map[string]interface{} "Internal Error"
// @Security     BearerAuth
// @Router       /books/paged [get]
func (h *HandlerImpl) ListBooksPaged(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListBooksPaged"))

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, _ = strconv.Atoi(raw)
	}
	pageSize := defaultPageSize
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		pageSize, _ = strconv.Atoi(raw)
	}
	if page <= 0 || pageSize <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Both 'page' and 'pageSize' must be greater than zero.")
		return
	}

	booksPage, err := h.bookService.ListBooksPaged(ctx, page, pageSize)
	if err != nil {
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		// Message stays generic; internals never reach the client.
		l.ErrorContext(ctx, "Failed to page books", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred while retrieving paginated books.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, booksPage)
}

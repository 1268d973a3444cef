package book

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/book-catalog-api/app/observability/metrics"
	"github.com/FACorreiaa/book-catalog-api/internal/api"
	"github.com/FACorreiaa/book-catalog-api/internal/types"
)

const allBooksCacheKey = "books:all"

var _ BookService = (*BookServiceImpl)(nil)

// BookService defines the business logic contract for catalog operations.
type BookService interface {
	ListBooks(ctx context.Context) ([]types.Book, error)
	GetBook(ctx context.Context, id int) (*types.Book, error)
	CreateBook(ctx context.Context, params types.BookParams) (*types.Book, error)
	UpdateBook(ctx context.Context, id int, params types.BookParams) error
	DeleteBook(ctx context.Context, id int) error
	SearchBooks(ctx context.Context, query string) ([]types.Book, error)
	ListBooksPaged(ctx context.Context, page, pageSize int) (*api.PageResponse[types.Book], error)
}

type BookServiceImpl struct {
	logger *slog.Logger
	repo   BookRepo
	cache  *gocache.Cache
}

func NewBookService(repo BookRepo, logger *slog.Logger) *BookServiceImpl {
	return &BookServiceImpl{
		logger: logger,
		repo:   repo,
		// Short TTL keeps the paged endpoint off the database under bursty
		// clients; every mutation flushes so reads stay read-your-writes.
		cache: gocache.New(30*time.Second, time.Minute),
	}
}

// ListBooks returns the full catalog in store order.
func (s *BookServiceImpl) ListBooks(ctx context.Context) ([]types.Book, error) {
	metrics.Get().CatalogRequestsTotal.Add(ctx, 1)
	return s.repo.GetAllBooks(ctx)
}

// GetBook retrieves one record by id.
func (s *BookServiceImpl) GetBook(ctx context.Context, id int) (*types.Book, error) {
	metrics.Get().CatalogRequestsTotal.Add(ctx, 1)
	return s.repo.GetBookByID(ctx, id)
}

// CreateBook inserts a new record; the store assigns the id.
func (s *BookServiceImpl) CreateBook(ctx context.Context, params types.BookParams) (*types.Book, error) {
	metrics.Get().CatalogRequestsTotal.Add(ctx, 1)
	created, err := s.repo.CreateBook(ctx, params)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return created, nil
}

// UpdateBook overwrites an existing record's fields.
func (s *BookServiceImpl) UpdateBook(ctx context.Context, id int, params types.BookParams) error {
	metrics.Get().CatalogRequestsTotal.Add(ctx, 1)
	if err := s.repo.UpdateBook(ctx, id, params); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

// DeleteBook removes a record.
func (s *BookServiceImpl) DeleteBook(ctx context.Context, id int) error {
	metrics.Get().CatalogRequestsTotal.Add(ctx, 1)
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

// SearchBooks matches the query case-insensitively against title and author.
func (s *BookServiceImpl) SearchBooks(ctx context.Context, query string) ([]types.Book, error) {
	metrics.Get().CatalogRequestsTotal.Add(ctx, 1)
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty: %w", types.ErrBadRequest)
	}
	return s.repo.SearchBooks(ctx, query)
}

// ListBooksPaged pages over the full catalog with the shared pagination
// rules; identical windows to the user listing.
func (s *BookServiceImpl) ListBooksPaged(ctx context.Context, page, pageSize int) (*api.PageResponse[types.Book], error) {
	metrics.Get().CatalogRequestsTotal.Add(ctx, 1)

	books, err := s.cachedAllBooks(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch books for paging", slog.Any("error", err))
		return nil, err
	}

	return api.Paginate(books, page, pageSize)
}

func (s *BookServiceImpl) cachedAllBooks(ctx context.Context) ([]types.Book, error) {
	if cached, ok := s.cache.Get(allBooksCacheKey); ok {
		if books, ok := cached.([]types.Book); ok {
			return books, nil
		}
	}
	books, err := s.repo.GetAllBooks(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(allBooksCacheKey, books, gocache.DefaultExpiration)
	return books, nil
}

package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/book-catalog-api/app/observability/metrics"
	"github.com/FACorreiaa/book-catalog-api/internal/types"
)

// PGXQuerier is the subset of pgxpool.Pool the repository needs. pgxmock's
// pool implements it too.
type PGXQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ BookRepo = (*BookRepoImpl)(nil)

// BookRepo defines the persistence contract for the catalog.
type BookRepo interface {
	GetAllBooks(ctx context.Context) ([]types.Book, error)
	GetBookByID(ctx context.Context, id int) (*types.Book, error)
	CreateBook(ctx context.Context, params types.BookParams) (*types.Book, error)
	UpdateBook(ctx context.Context, id int, params types.BookParams) error
	DeleteBook(ctx context.Context, id int) error
	SearchBooks(ctx context.Context, query string) ([]types.Book, error)
}

type BookRepoImpl struct {
	logger *slog.Logger
	db     PGXQuerier
}

func NewBookRepo(db PGXQuerier, logger *slog.Logger) *BookRepoImpl {
	return &BookRepoImpl{
		logger: logger,
		db:     db,
	}
}

const bookColumns = "id, title, author, published_date, language, genre, created_at, updated_at"

func scanBooks(rows pgx.Rows) ([]types.Book, error) {
	defer rows.Close()
	var books []types.Book
	for rows.Next() {
		var b types.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PublishedDate, &b.Language, &b.Genre, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating book rows: %w", err)
	}
	return books, nil
}

// GetAllBooks returns the whole catalog ordered by id.
func (r *BookRepoImpl) GetAllBooks(ctx context.Context) ([]types.Book, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, "SELECT "+bookColumns+" FROM books ORDER BY id")
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("get all books: query failed: %w", err)
	}
	return scanBooks(rows)
}

// GetBookByID retrieves a single book.
func (r *BookRepoImpl) GetBookByID(ctx context.Context, id int) (*types.Book, error) {
	start := time.Now()
	var b types.Book
	err := r.db.QueryRow(ctx,
		"SELECT "+bookColumns+" FROM books WHERE id = $1", id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.PublishedDate, &b.Language, &b.Genre, &b.CreatedAt, &b.UpdatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("book %d: %w", id, types.ErrNotFound)
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("get book by id: query failed: %w", err)
	}
	return &b, nil
}

// CreateBook inserts a new record and returns it with the assigned id.
func (r *BookRepoImpl) CreateBook(ctx context.Context, params types.BookParams) (*types.Book, error) {
	start := time.Now()
	var b types.Book
	err := r.db.QueryRow(ctx,
		`INSERT INTO books (title, author, published_date, language, genre)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+bookColumns,
		params.Title, params.Author, params.PublishedDate, params.Language, params.Genre,
	).Scan(&b.ID, &b.Title, &b.Author, &b.PublishedDate, &b.Language, &b.Genre, &b.CreatedAt, &b.UpdatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("create book: db insert failed: %w", err)
	}
	return &b, nil
}

// UpdateBook overwrites all client-settable fields of an existing record.
func (r *BookRepoImpl) UpdateBook(ctx context.Context, id int, params types.BookParams) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx,
		`UPDATE books
		 SET title = $1, author = $2, published_date = $3, language = $4, genre = $5, updated_at = $6
		 WHERE id = $7`,
		params.Title, params.Author, params.PublishedDate, params.Language, params.Genre, time.Now(), id)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("update book: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %d: %w", id, types.ErrNotFound)
	}
	return nil
}

// DeleteBook removes a record.
func (r *BookRepoImpl) DeleteBook(ctx context.Context, id int) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, "DELETE FROM books WHERE id = $1", id)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("delete book: db delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %d: %w", id, types.ErrNotFound)
	}
	return nil
}

// SearchBooks returns books whose title or author contains the query,
// case-insensitively. Ordering follows the catalog order.
func (r *BookRepoImpl) SearchBooks(ctx context.Context, query string) ([]types.Book, error) {
	start := time.Now()
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.db.Query(ctx,
		"SELECT "+bookColumns+" FROM books WHERE title ILIKE $1 OR author ILIKE $1 ORDER BY id",
		pattern)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("search books: query failed: %w", err)
	}
	return scanBooks(rows)
}

// escapeLike neutralizes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

package book

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/book-catalog-api/internal/types"
)

func newBookRepoWithMock(t *testing.T) (*BookRepoImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewBookRepo(mockPool, slog.Default()), mockPool
}

func bookRows(ids ...int) *pgxmock.Rows {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "title", "author", "published_date", "language", "genre", "created_at", "updated_at"})
	for _, id := range ids {
		rows.AddRow(id, "Title", "Author", now, "English", "Software", now, now)
	}
	return rows
}

func TestGetAllBooks(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT " + bookColumns + " FROM books ORDER BY id")

	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectQuery(query).WillReturnRows(bookRows(1, 2, 3))

		books, err := repo.GetAllBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, 1, books[0].ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectQuery(query).WillReturnError(errors.New("db down"))

		_, err := repo.GetAllBooks(ctx)
		assert.Error(t, err)
	})
}

func TestGetBookByID(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT " + bookColumns + " FROM books WHERE id = $1")

	t.Run("Found", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectQuery(query).WithArgs(2).WillReturnRows(bookRows(2))

		b, err := repo.GetBookByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, b.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectQuery(query).WithArgs(99).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetBookByID(ctx, 99)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestCreateBookQuery(t *testing.T) {
	ctx := context.Background()

	params := types.BookParams{
		Title:         "Clean Architecture",
		Author:        "Robert C. Martin",
		PublishedDate: time.Date(2017, 9, 20, 0, 0, 0, 0, time.UTC),
		Language:      "English",
		Genre:         "Software",
	}

	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		now := time.Now()
		rows := pgxmock.NewRows([]string{"id", "title", "author", "published_date", "language", "genre", "created_at", "updated_at"}).
			AddRow(6, params.Title, params.Author, params.PublishedDate, params.Language, params.Genre, now, now)

		mockPool.ExpectQuery(`INSERT INTO books`).
			WithArgs(params.Title, params.Author, params.PublishedDate, params.Language, params.Genre).
			WillReturnRows(rows)

		b, err := repo.CreateBook(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, 6, b.ID)
		assert.Equal(t, "Clean Architecture", b.Title)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("InsertError", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectQuery(`INSERT INTO books`).
			WithArgs(params.Title, params.Author, params.PublishedDate, params.Language, params.Genre).
			WillReturnError(errors.New("db down"))

		_, err := repo.CreateBook(ctx, params)
		assert.Error(t, err)
	})
}

func TestUpdateBookQuery(t *testing.T) {
	ctx := context.Background()

	params := types.BookParams{
		Title:         "Renamed",
		Author:        "Someone",
		PublishedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Language:      "English",
		Genre:         "Software",
	}

	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectExec(`UPDATE books`).
			WithArgs(params.Title, params.Author, params.PublishedDate, params.Language, params.Genre, pgxmock.AnyArg(), 2).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateBook(ctx, 2, params))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectExec(`UPDATE books`).
			WithArgs(params.Title, params.Author, params.PublishedDate, params.Language, params.Genre, pgxmock.AnyArg(), 99).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateBook(ctx, 99, params)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestDeleteBookQuery(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("DELETE FROM books WHERE id = $1")

	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectExec(query).WithArgs(4).WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeleteBook(ctx, 4))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectExec(query).WithArgs(99).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteBook(ctx, 99)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestSearchBooksQuery(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT " + bookColumns + " FROM books WHERE title ILIKE $1 OR author ILIKE $1 ORDER BY id")

	t.Run("PatternWrapsQuery", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectQuery(query).WithArgs("%martin%").WillReturnRows(bookRows(2, 3))

		books, err := repo.SearchBooks(ctx, "martin")
		require.NoError(t, err)
		assert.Len(t, books, 2)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("MetacharactersEscaped", func(t *testing.T) {
		repo, mockPool := newBookRepoWithMock(t)

		mockPool.ExpectQuery(query).WithArgs(`%100\% Go%`).WillReturnRows(bookRows())

		books, err := repo.SearchBooks(ctx, "100% Go")
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "plain", escapeLike("plain"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `under\_score`, escapeLike("under_score"))
	assert.Equal(t, `back\\slash`, escapeLike(`back\slash`))
}

package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type seedBook struct {
	title     string
	author    string
	published time.Time
	language  string
	genre     string
}

var seedBooks = []seedBook{
	{"The Pragmatic Programmer", "Andrew Hunt", time.Date(1999, 10, 20, 0, 0, 0, 0, time.UTC), "English", "Software"},
	{"Clean Code", "Robert C. Martin", time.Date(2008, 8, 1, 0, 0, 0, 0, time.UTC), "English", "Software"},
	{"Domain-Driven Design", "Eric Evans", time.Date(2003, 8, 30, 0, 0, 0, 0, time.UTC), "English", "Software"},
	{"Design Patterns", "Erich Gamma", time.Date(1994, 10, 31, 0, 0, 0, 0, time.UTC), "English", "Software"},
	{"Refactoring", "Martin Fowler", time.Date(1999, 7, 8, 0, 0, 0, 0, time.UTC), "English", "Software"},
}

// Seed loads the initial catalog and a default account on first start.
// Both inserts are skipped when the tables already contain rows.
func Seed(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	var bookCount int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM books").Scan(&bookCount); err != nil {
		return fmt.Errorf("seed: counting books: %w", err)
	}
	if bookCount == 0 {
		for _, b := range seedBooks {
			_, err := pool.Exec(ctx,
				`INSERT INTO books (title, author, published_date, language, genre)
				 VALUES ($1, $2, $3, $4, $5)`,
				b.title, b.author, b.published, b.language, b.genre)
			if err != nil {
				return fmt.Errorf("seed: inserting book %q: %w", b.title, err)
			}
		}
		logger.InfoContext(ctx, "Seeded book catalog", slog.Int("count", len(seedBooks)))
	}

	var userCount int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&userCount); err != nil {
		return fmt.Errorf("seed: counting users: %w", err)
	}
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: hashing default password: %w", err)
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO users (name, email, mobile, address, username, password_hash)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			"Test User", "test@example.com", "1234567890", "Test Address", "testuser", string(hash))
		if err != nil {
			return fmt.Errorf("seed: inserting default user: %w", err)
		}
		logger.InfoContext(ctx, "Seeded default user", slog.String("username", "testuser"))
	}

	return nil
}

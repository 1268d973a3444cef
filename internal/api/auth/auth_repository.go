package auth

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

// uniqueViolation is the Postgres error code raised when the users.username
// UNIQUE constraint rejects a concurrent duplicate registration.
const uniqueViolation = "23505"

// PGXQuerier is the subset of pgxpool.Pool the repository needs. pgxmock's
// pool implements it too, which keeps repository tests off a live database.
type PGXQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ AuthRepo = (*AuthRepoImpl)(nil)

// AuthRepo defines the persistence contract for user accounts.
type AuthRepo interface {
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	CreateUser(ctx context.Context, user types.User) (int, error)
	GetAllUsers(ctx context.Context) ([]types.User, error)
	UpdatePassword(ctx context.Context, userID int, newPasswordHash string) error
}

type AuthRepoImpl struct {
	logger *slog.Logger
	db     PGXQuerier
}

func NewAuthRepo(db PGXQuerier, logger *slog.Logger) *AuthRepoImpl {
	return &AuthRepoImpl{
		logger: logger,
		db:     db,
	}
}

const userColumns = "id, name, email, mobile, address, username, password_hash, created_at, updated_at"

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Mobile, &u.Address, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by exact username match.
func (r *AuthRepoImpl) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	start := time.Now()
	user, err := scanUser(r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username))
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, types.ErrNotFound)
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("get user by username: query failed: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by exact email match.
func (r *AuthRepoImpl) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	start := time.Now()
	user, err := scanUser(r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %q: %w", email, types.ErrNotFound)
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("get user by email: query failed: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new user and returns its assigned id.
// The schema-level UNIQUE constraint is the authority on duplicate
// usernames; its violation is mapped to types.ErrConflict.
func (r *AuthRepoImpl) CreateUser(ctx context.Context, user types.User) (int, error) {
	start := time.Now()
	var id int
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (name, email, mobile, address, username, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		user.Name, user.Email, user.Mobile, user.Address, user.Username, user.PasswordHash,
	).Scan(&id)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("username %q: %w", user.Username, types.ErrConflict)
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return 0, fmt.Errorf("create user: db insert failed: %w", err)
	}
	return id, nil
}

// GetAllUsers returns every user ordered by id.
func (r *AuthRepoImpl) GetAllUsers(ctx context.Context) ([]types.User, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("get all users: query failed: %w", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Mobile, &u.Address, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("get all users: scan failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get all users: rows iteration failed: %w", err)
	}
	return users, nil
}

// UpdatePassword overwrites a user's stored password hash.
func (r *AuthRepoImpl) UpdatePassword(ctx context.Context, userID int, newPasswordHash string) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3",
		newPasswordHash, time.Now(), userID)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("update password: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, types.ErrNotFound)
	}
	return nil
}

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/book-catalog-api/app/observability/metrics"
	"github.com/FACorreiaa/book-catalog-api/config"
	"github.com/FACorreiaa/book-catalog-api/internal/api"
	"github.com/FACorreiaa/book-catalog-api/internal/types"
)

const tempPasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const tempPasswordLength = 8

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for authentication.
type AuthService interface {
	Register(ctx context.Context, username, password, name, email string) error
	Login(ctx context.Context, username, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ListUsers(ctx context.Context, page, pageSize int) (*api.PageResponse[types.UserView], error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	cfg    config.JWTConfig
	repo   AuthRepo
}

func NewAuthService(repo AuthRepo, cfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		cfg:    cfg,
		repo:   repo,
	}
}

// Register creates a new account. Username uniqueness is enforced by the
// store; a duplicate surfaces as types.ErrConflict.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password, name, email string) error {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", username))
	metrics.Get().RegisterRequestsTotal.Add(ctx, 1)

	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("username and password are required: %w", types.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.repo.CreateUser(ctx, types.User{
		Name:         name,
		Email:        email,
		Mobile:       "",
		Address:      "",
		Username:     username,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			l.WarnContext(ctx, "Registration rejected, username taken")
			return err
		}
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return err
	}

	l.InfoContext(ctx, "User registered")
	return nil
}

// Login verifies credentials and issues a signed access token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))
	metrics.Get().LoginRequestsTotal.Add(ctx, 1)

	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("username and password are required: %w", types.ErrBadRequest)
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", fmt.Errorf("unknown username: %w", types.ErrUnauthenticated)
		}
		l.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Password mismatch")
		return "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	token, err := generateAccessToken(user, s.cfg)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate access token", slog.Any("error", err))
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	l.InfoContext(ctx, "Login successful")
	return token, nil
}

// ForgotPassword issues a temporary password for the account matching the
// email and returns the plaintext so the handler can include it in the
// response. Out-of-band delivery is not implemented; the in-body return is
// the documented upstream defect.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) (string, error) {
	l := s.logger.With(slog.String("method", "ForgotPassword"))

	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("email is required: %w", types.ErrBadRequest)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", err
		}
		l.ErrorContext(ctx, "Failed to look up user by email", slog.Any("error", err))
		return "", err
	}

	tempPassword, err := generateTemporaryPassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash temporary password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		l.ErrorContext(ctx, "Failed to store temporary password", slog.Any("error", err))
		return "", err
	}

	metrics.Get().PasswordResetsTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Temporary password issued", slog.Int("user_id", user.ID))
	return tempPassword, nil
}

// ListUsers returns one page of the user collection as public views with
// masked emails. Password hashes never leave this layer.
func (s *AuthServiceImpl) ListUsers(ctx context.Context, page, pageSize int) (*api.PageResponse[types.UserView], error) {
	l := s.logger.With(slog.String("method", "ListUsers"))

	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch users", slog.Any("error", err))
		return nil, err
	}

	views := make([]types.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, types.UserView{
			ID:       u.ID,
			Name:     u.Name,
			Email:    MaskEmail(u.Email),
			Mobile:   u.Mobile,
			Address:  u.Address,
			Username: u.Username,
		})
	}

	return api.Paginate(views, page, pageSize)
}

// generateAccessToken builds a signed JWT for the user. Claims: sub is the
// username, jti a fresh UUID, user_id the numeric account id. Expiry is
// issue time plus the configured minutes.
func generateAccessToken(user *types.User, cfg config.JWTConfig) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpiryMinutes) * time.Minute)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// generateTemporaryPassword draws 8 characters uniformly from the
// case-sensitive alphanumeric alphabet using crypto/rand.
func generateTemporaryPassword() (string, error) {
	out := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// MaskEmail obfuscates the local part of an email for display. It is a
// best-effort transform, not a security control: strings without a usable
// local part are returned unchanged.
func MaskEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return email
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return local[:1] + "*" + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}

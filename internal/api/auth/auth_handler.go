package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/FACorreiaa/book-catalog-api/internal/api"
	"github.com/FACorreiaa/book-catalog-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register
// @Description  Creates a new user account.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200 {object} Response "Registered"
// @Failure      400 {object} Response "Invalid Input"
// @Failure      409 {object} Response "Username Taken"
// @Router       /auth/register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authService.Register(ctx, req.Username, req.Password, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username and password are required.")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Username already exists.")
		default:
			l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, Response{Success: true, Message: "Registration successful."})
}

// Login godoc
// @Summary      Login
// @Description  Verifies credentials and returns a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200 {object} LoginResponse "Token"
// @Failure      400 {object} Response "Invalid Input"
// @Failure      401 {object} Response "Invalid Credentials"
// @Router       /auth/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username and password are required.")
		case errors.Is(err, types.ErrUnauthenticated):
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid username or password.")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{Token: token})
}

// ForgotPassword godoc
// @Summary      Forgot Password
// @Description  Issues a temporary password for the account matching the email.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200 {object} ForgotPasswordResponse "Temporary Password"
// @Failure      400 {object} Response "Invalid Input"
// @Failure      404 {object} Response "Unknown Email"
// @Router       /auth/forgot-password [post]
func (h *HandlerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ForgotPassword"))

	var req ForgotPasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tempPassword, err := h.authService.ForgotPassword(ctx, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Email is required.")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User with the provided email not found.")
		default:
			l.ErrorContext(ctx, "Password reset failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to reset password")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, ForgotPasswordResponse{
		Message:           "Password reset successful. Check your email for the temporary password.",
		TemporaryPassword: tempPassword,
	})
}

// ListUsers godoc
// @Summary      List Users
// @Description  Returns one page of registered users with masked emails.
// @Tags         Auth
// @Produce      json
// @Param        page query int true "1-based page number"
// @Param        pageSize query int true "items per page"
// @Success      200 {object} api.PageResponse[types.UserView] "Page"
// @Failure      400 {object} Response "Invalid Params"
// @Failure      500 {object} Response "Internal Error"
// @Security     BearerAuth
// @Router       /auth/users [get]
func (h *HandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListUsers"))

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if page <= 0 || pageSize <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Both 'page' and 'pageSize' must be greater than zero.")
		return
	}

	usersPage, err := h.authService.ListUsers(ctx, page, pageSize)
	if err != nil {
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		// Message stays generic; internals never reach the client.
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred while retrieving paginated users.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, usersPage)
}

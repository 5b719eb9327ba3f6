package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gderuki/Taskr-sub000/internal/apperrors"
	"github.com/gderuki/Taskr-sub000/internal/handlers/render"
	"github.com/gderuki/Taskr-sub000/internal/models"
)

type authService interface {
	// Register user with username and password
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	Register(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Login user with username and password
	// Has to return apperrors.ErrAuthenticationFailed on any credential failure
	Login(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Refresh rotates the refresh token and returns a new pair
	// Has to return apperrors.ErrRefreshTokenNotFound or ErrRefreshTokenExpired
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Logout deletes the refresh token, idempotent
	Logout(ctx context.Context, refresh string) error

	// Configured access token lifetime
	AccessTTL() time.Duration
}

// TokenResponse is the body of every successful login/register/refresh
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type AuthHandler struct {
	authService authService
}

func NewAuth(auth authService) *AuthHandler {
	return &AuthHandler{authService: auth}
}

func (h *AuthHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /refresh", h.refresh)
	mux.HandleFunc("POST /logout", h.logout)

	return mux
}

func (h *AuthHandler) tokenResponse(pair models.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.authService.AccessTTL().Seconds()),
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Password string `json:"password" validate:"required,min=8"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.authService.Register(r.Context(), data.Username, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.Error(w, r, "User already exists", http.StatusConflict)
		default:
			render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, h.tokenResponse(pair), http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.authService.Login(r.Context(), data.Username, data.Password)
	if err != nil {
		switch {
		// One message for every credential failure: the response must not
		// reveal whether the username or the password was wrong
		case errors.Is(err, apperrors.ErrAuthenticationFailed):
			render.Error(w, r, "Invalid username or password", http.StatusUnauthorized)
		default:
			render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, h.tokenResponse(pair))
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	data, err := render.BindAndValidate[RefreshRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.authService.Refresh(r.Context(), data.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenExpired):
			render.Error(w, r, "Refresh token has expired, please login again", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrRefreshTokenNotFound),
			errors.Is(err, apperrors.ErrAuthenticationFailed):
			render.Error(w, r, "Refresh token not found", http.StatusUnauthorized)
		default:
			render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, h.tokenResponse(pair))
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	type LogoutSuccessResponse struct {
		Message string `json:"message"`
	}

	type LogoutRequest struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	data, err := render.BindAndValidate[LogoutRequest](w, r)
	if err != nil {
		return
	}

	// Unknown and already-deleted tokens succeed as well
	if err := h.authService.Logout(r.Context(), data.RefreshToken); err != nil {
		render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, LogoutSuccessResponse{Message: "Logged out"})
}

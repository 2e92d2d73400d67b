package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/swaritsharma001/welness-studio/internal/service"
	"github.com/swaritsharma001/welness-studio/pkg/httputil"
	"github.com/swaritsharma001/welness-studio/pkg/validator"
)

// cookieTTL is how long the browser credential cookie stays valid. Shorter
// than the token itself so stale cookies expire first.
const cookieTTL = 7 * 24 * time.Hour

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	userService  *service.UserService
	cookieSecure bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler. cookieSecure controls the Secure
// flag on the credential cookie and should be true outside development.
func NewAuthHandler(userService *service.UserService, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// SignupRequest is the request body for user registration.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse is returned from signup and login.
type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SignupRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	_, token, err := h.userService.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.setTokenCookie(w, token)
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: authResponse{Message: "account created", Token: token},
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	_, token, err := h.userService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.setTokenCookie(w, token)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: authResponse{Message: "logged in", Token: token},
	})
}

// Logout handles POST /api/v1/auth/logout. It clears the credential cookie;
// the token itself stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "logged out"},
	})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}

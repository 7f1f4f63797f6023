package handlers

import (
	"net/http"
	"time"

	"github.com/projectcostai/projectcostai/internal/api/dto"
	"github.com/projectcostai/projectcostai/internal/api/middleware"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
	"github.com/projectcostai/projectcostai/internal/pkg/validator"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService  user.Service
	logger       *logger.Logger
	validator    *validator.Validator
	tokenTTL     time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService user.Service,
	log *logger.Logger,
	val *validator.Validator,
	tokenTTL time.Duration,
	secureCookie bool,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		logger:       log,
		validator:    val,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

// Signup handles user registration
// @Summary Register a new account
// @Description Create a password account and return an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} utils.ErrorResponse "Validation failed or email exists"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate(h.validator, req); err != nil {
		writeError(w, err)
		return
	}

	sess, err := h.userService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, sess.Token)
	utils.WriteJSON(w, http.StatusCreated, dto.AuthResponse{
		Success: true,
		User:    dto.UserFromDomain(sess.User),
		Token:   sess.Token,
	})
}

// Login handles user login
// @Summary User login
// @Description Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate(h.validator, req); err != nil {
		writeError(w, err)
		return
	}

	sess, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"ip": middleware.ClientKey(r),
		}).Warn("Login rejected")
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, sess.Token)
	utils.WriteJSON(w, http.StatusOK, dto.AuthResponse{
		Success: true,
		User:    dto.UserFromDomain(sess.User),
		Token:   sess.Token,
	})
}

// Logout clears the token cookie
// @Summary Logout
// @Tags Auth
// @Success 200 {object} utils.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Logged out", nil)
}

// Me returns the authenticated user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.userService.Me(r.Context(), caller(r))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dto.UserResponse{User: dto.UserFromDomain(u)})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
	})
}

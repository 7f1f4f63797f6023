package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/projectcostai/projectcostai/internal/api/middleware"
	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// ExternalLogin is one configured external login provider
type ExternalLogin interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.ExternalProfile, error)
}

// OAuthHandler runs the browser redirect flow for external logins
type OAuthHandler struct {
	providers    map[string]ExternalLogin
	userService  user.Service
	logger       *logger.Logger
	frontendURL  string
	tokenTTL     time.Duration
	secureCookie bool
}

func NewOAuthHandler(
	providers map[string]ExternalLogin,
	userService user.Service,
	log *logger.Logger,
	frontendURL string,
	tokenTTL time.Duration,
	secureCookie bool,
) *OAuthHandler {
	return &OAuthHandler{
		providers:    providers,
		userService:  userService,
		logger:       log,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

// Start redirects to the provider consent page
// @Summary Begin external login
// @Tags Auth
// @Param provider path string true "google or github"
// @Success 307
// @Failure 404 {object} utils.ErrorResponse "Provider not configured"
// @Router /auth/oauth/{provider} [get]
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	p, ok := h.providers[name]
	if !ok {
		writeError(w, errors.NotFound("Login provider"))
		return
	}

	state := auth.RandomState()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/auth/oauth",
		MaxAge:   int(oauthStateTTL.Seconds()),
	})
	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// Callback completes the flow and hands the token to the frontend in the
// URL fragment.
// @Summary External login callback
// @Tags Auth
// @Param provider path string true "google or github"
// @Param state query string true "State"
// @Param code query string true "Authorization code"
// @Success 307
// @Router /auth/oauth/{provider}/callback [get]
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	p, ok := h.providers[name]
	if !ok {
		writeError(w, errors.NotFound("Login provider"))
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	state := r.URL.Query().Get("state")
	if err != nil || state == "" || cookie.Value != state {
		h.fail(w, r, "invalid_state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/auth/oauth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.fail(w, r, "missing_code")
		return
	}

	profile, err := p.Exchange(r.Context(), code)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{"provider": name}).WithError(err).Warn("External login exchange failed")
		h.fail(w, r, "exchange_failed")
		return
	}

	sess, err := h.userService.LoginExternal(r.Context(), *profile)
	if err != nil {
		h.logger.WithError(err).Error("External login failed")
		h.fail(w, r, "login_failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    sess.Token,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
	})
	http.Redirect(w, r, h.frontendURL+"/oauth/callback#token="+url.QueryEscape(sess.Token), http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) fail(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, h.frontendURL+"/login?error="+url.QueryEscape(reason), http.StatusTemporaryRedirect)
}

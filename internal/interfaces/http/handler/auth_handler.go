package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Yathushan/coldsweat/internal/application/dto"
	"github.com/Yathushan/coldsweat/internal/application/usecase"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
	"github.com/Yathushan/coldsweat/internal/infrastructure/metrics"
	"github.com/Yathushan/coldsweat/internal/interfaces/http/middleware"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

const loginFailedMessage = "Unable to log in. Please check your username and password."

// AuthHandler logs users in and out of the web interface
type AuthHandler struct {
	authUC  *usecase.AuthenticateUseCase
	statsUC *usecase.GetStatsUseCase
	rs      *Responder
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewAuthHandler(
	authUC *usecase.AuthenticateUseCase,
	statsUC *usecase.GetStatsUseCase,
	rs *Responder,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUC:  authUC,
		statsUC: statsUC,
		rs:      rs,
		metrics: metrics,
		logger:  logger,
	}
}

type loginForm struct {
	Username string
	From     string
	Stats    *dto.StatsDTO
}

// LoginForm shows the log in page with a few instance counters.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUC.Execute(r.Context())
	if err != nil {
		// The form is still usable without counters.
		h.logger.Warn("Failed to load stats", "error", err.Error())
	}

	h.rs.Render(w, r, "login", "Log In", loginForm{
		From:  safeFrom(r, r.URL.Query().Get("from")),
		Stats: stats,
	})
}

// Login checks the posted credentials. Both outcomes redirect with 303.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.rs.BadRequest(w, "Malformed form data")
		return
	}

	from := r.PostForm.Get("from")
	if from == "" {
		from = r.URL.Query().Get("from")
	}
	from = safeFrom(r, from)

	username := strings.TrimSpace(r.PostForm.Get("username"))
	user, err := h.authUC.Execute(r.Context(), username, r.PostForm.Get("password"))
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		h.metrics.LoginFailed()
		h.logger.Warn("Log in failed",
			"username", username,
			"remote_addr", r.RemoteAddr,
		)
		h.rs.SetAlert(w, valueobject.NewAlertMessage(valueobject.AlertError, loginFailedMessage))
		http.Redirect(w, r, middleware.ApplicationURL(r)+"/login?from="+url.QueryEscape(from), http.StatusSeeOther)
		return
	}
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	if err := middleware.LogIn(w, r, user); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.logger.Info("User logged in", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, from, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := middleware.LogOut(w, r); err != nil {
		h.logger.Error("Failed to destroy session", err)
	}
	http.Redirect(w, r, middleware.ApplicationURL(r)+"/", http.StatusFound)
}

// safeFrom keeps redirects inside the application. Relative paths are taken
// as relative to the application root.
func safeFrom(r *http.Request, from string) string {
	appURL := middleware.ApplicationURL(r)
	switch {
	case from == appURL || strings.HasPrefix(from, appURL+"/"):
		return from
	case strings.HasPrefix(from, "/") && !strings.HasPrefix(from, "//"):
		return appURL + from
	default:
		return appURL + "/"
	}
}

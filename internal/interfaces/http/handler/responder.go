package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
	"github.com/Yathushan/coldsweat/internal/interfaces/http/middleware"
	"github.com/Yathushan/coldsweat/internal/interfaces/view"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// AlertCookieName carries a flash message to the next rendered page.
const AlertCookieName = "alert_message"

// Responder renders pages and error responses for every handler.
type Responder struct {
	renderer  *view.Renderer
	staticURL string
	version   string
	logger    *logger.Logger
}

func NewResponder(renderer *view.Renderer, staticURL, version string, logger *logger.Logger) *Responder {
	return &Responder{
		renderer:  renderer,
		staticURL: staticURL,
		version:   version,
		logger:    logger,
	}
}

// NewPage fills in the values every template relies on. A pending alert
// message is consumed.
func (rs *Responder) NewPage(w http.ResponseWriter, r *http.Request, title string, data interface{}) *view.Page {
	return &view.Page{
		StaticURL:      rs.staticURL,
		ApplicationURL: middleware.ApplicationURL(r),
		PageTitle:      title,
		Alert:          rs.popAlert(w, r),
		User:           middleware.CurrentUser(r),
		Version:        rs.version,
		Now:            time.Now().UTC(),
		Data:           data,
	}
}

func (rs *Responder) Render(w http.ResponseWriter, r *http.Request, name, title string, data interface{}) {
	rs.RenderPage(w, r, name, rs.NewPage(w, r, title, data), http.StatusOK)
}

func (rs *Responder) RenderPage(w http.ResponseWriter, r *http.Request, name string, page *view.Page, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := rs.renderer.Render(w, name, page); err != nil {
		// Headers are gone already, the page stays blank.
		rs.logger.Error("Failed to render template", err, "template", name, "path", r.URL.Path)
	}
}

type modalAlert struct {
	Title      string
	Message    valueobject.AlertMessage
	Href       string
	ButtonText string
}

// Modal answers a modal form submission with a message and a single link.
func (rs *Responder) Modal(w http.ResponseWriter, r *http.Request, title string, msg valueobject.AlertMessage, href, buttonText string) {
	rs.Render(w, r, "_modal_alert", title, modalAlert{
		Title:      title,
		Message:    msg,
		Href:       href,
		ButtonText: buttonText,
	})
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}

// Error maps err to a 404 or a 500 page.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		rs.ErrorPage(w, r, http.StatusNotFound, "The requested resource could not be found.")
		return
	}

	rs.logger.Error("Request failed", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.RequestID(r.Context()),
	)
	rs.ErrorPage(w, r, http.StatusInternalServerError, "")
}

func (rs *Responder) ErrorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	title := http.StatusText(status)
	rs.RenderPage(w, r, "error", rs.NewPage(w, r, title, errorPage{
		Status:  status,
		Title:   title,
		Message: message,
	}), status)
}

// BadRequest answers with a plain text message, read by scripts.
func (rs *Responder) BadRequest(w http.ResponseWriter, message string) {
	http.Error(w, message, http.StatusBadRequest)
}

// SetAlert queues msg for the next rendered page.
func (rs *Responder) SetAlert(w http.ResponseWriter, msg valueobject.AlertMessage) {
	http.SetCookie(w, &http.Cookie{
		Name:     AlertCookieName,
		Value:    url.QueryEscape(msg.Encode()),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (rs *Responder) popAlert(w http.ResponseWriter, r *http.Request) valueobject.AlertMessage {
	c, err := r.Cookie(AlertCookieName)
	if err != nil || c.Value == "" {
		return valueobject.AlertMessage{}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AlertCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return valueobject.AlertMessage{}
	}
	return valueobject.ParseAlertMessage(raw)
}

func queryOffset(r *http.Request) int {
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

package handler

import "net/http"

// PageHandler serves the static informational pages
type PageHandler struct {
	rs *Responder
}

func NewPageHandler(rs *Responder) *PageHandler {
	return &PageHandler{rs: rs}
}

func (h *PageHandler) Fever(w http.ResponseWriter, r *http.Request) {
	h.rs.Render(w, r, "fever", "Fever Endpoint", nil)
}

func (h *PageHandler) Guide(w http.ResponseWriter, r *http.Request) {
	h.rs.Render(w, r, "guide", "Guide", nil)
}

func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.rs.Render(w, r, "about", "About", nil)
}

// NotFound renders the 404 page for unknown paths.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.rs.ErrorPage(w, r, http.StatusNotFound, "The requested page could not be found.")
}

func (h *PageHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

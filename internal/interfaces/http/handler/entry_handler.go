package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Yathushan/coldsweat/internal/application/usecase"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
	"github.com/Yathushan/coldsweat/internal/interfaces/http/middleware"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// EntryHandler serves entry lists, single entries and read/saved marks
type EntryHandler struct {
	listUC    *usecase.ListEntriesUseCase
	showUC    *usecase.ShowEntryUseCase
	markUC    *usecase.MarkEntryUseCase
	markAllUC *usecase.MarkAllReadUseCase
	rs        *Responder
	logger    *logger.Logger
}

func NewEntryHandler(
	listUC *usecase.ListEntriesUseCase,
	showUC *usecase.ShowEntryUseCase,
	markUC *usecase.MarkEntryUseCase,
	markAllUC *usecase.MarkAllReadUseCase,
	rs *Responder,
	logger *logger.Logger,
) *EntryHandler {
	return &EntryHandler{
		listUC:    listUC,
		showUC:    showUC,
		markUC:    markUC,
		markAllUC: markAllUC,
		rs:        rs,
		logger:    logger,
	}
}

// List shows a page of entries. The filter comes from the query string:
// ?saved, ?all, ?group=<id>, ?feed=<id>, unread otherwise.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := valueobject.ParseEntryFilter(r.URL.Query())
	if err != nil {
		h.rs.BadRequest(w, err.Error())
		return
	}

	user := middleware.CurrentUser(r)
	list, err := h.listUC.Execute(r.Context(), user.ID, filter, queryOffset(r))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.Render(w, r, "entries", list.PageTitle, list)
}

// Show opens an entry and marks it read.
func (h *EntryHandler) Show(w http.ResponseWriter, r *http.Request) {
	entryID, ok := pathID(r)
	if !ok {
		h.rs.ErrorPage(w, r, http.StatusNotFound, "No such entry.")
		return
	}

	filter, err := valueobject.ParseEntryFilter(r.URL.Query())
	if err != nil {
		h.rs.BadRequest(w, err.Error())
		return
	}

	user := middleware.CurrentUser(r)
	detail, err := h.showUC.Execute(r.Context(), user.ID, entryID, filter)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.Render(w, r, "entry", detail.PageTitle, detail)
}

// Mark changes the read or saved status of an entry. Posting without the
// mark field, or with a status other than read|unread|saved|unsaved, only
// checks that the entry exists.
func (h *EntryHandler) Mark(w http.ResponseWriter, r *http.Request) {
	entryID, ok := pathID(r)
	if !ok {
		h.rs.ErrorPage(w, r, http.StatusNotFound, "No such entry.")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.rs.BadRequest(w, "Malformed form data")
		return
	}

	if !r.PostForm.Has("as") {
		h.rs.BadRequest(w, "Missing parameter as=read|unread|saved|unsaved")
		return
	}

	status, err := valueobject.ParseEntryStatus(r.PostForm.Get("as"))
	if err != nil {
		h.logger.Debug("Ignored unknown entry status", "entry_id", entryID, "as", r.PostForm.Get("as"))
	}

	if r.PostForm.Has("mark") && err == nil {
		user := middleware.CurrentUser(r)
		err = h.markUC.Execute(r.Context(), user.ID, entryID, status)
	} else {
		err = h.markUC.Check(r.Context(), entryID)
	}
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// MarkAllForm is the confirmation dialog of MarkAll. It carries the time
// the user looked at the list.
func (h *EntryHandler) MarkAllForm(w http.ResponseWriter, r *http.Request) {
	h.rs.Render(w, r, "_entries_mark_all_read", "", nil)
}

// MarkAll marks as read everything fetched before the posted epoch.
func (h *EntryHandler) MarkAll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.rs.BadRequest(w, "Malformed form data")
		return
	}

	epoch, err := strconv.ParseInt(r.PostForm.Get("before"), 10, 64)
	if err != nil {
		h.rs.BadRequest(w, "Missing parameter before=time")
		return
	}

	user := middleware.CurrentUser(r)
	if _, err := h.markAllUC.Execute(r.Context(), user.ID, time.Unix(epoch, 0).UTC()); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.Modal(w, r, "All entries marked",
		valueobject.NewAlertMessage(valueobject.AlertSuccess, "All entries have been marked as read"),
		middleware.ApplicationURL(r)+"/entries?unread",
		"Back to Unread",
	)
}

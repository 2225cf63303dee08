package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Yathushan/coldsweat/internal/application/usecase"
	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
	"github.com/Yathushan/coldsweat/internal/infrastructure/metrics"
	"github.com/Yathushan/coldsweat/internal/interfaces/http/middleware"
	"github.com/Yathushan/coldsweat/internal/interfaces/view"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// FeedHandler serves the subscription pages
type FeedHandler struct {
	listUC  *usecase.ListFeedsUseCase
	showUC  *usecase.ShowFeedUseCase
	addUC   *usecase.AddFeedUseCase
	rs      *Responder
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewFeedHandler(
	listUC *usecase.ListFeedsUseCase,
	showUC *usecase.ShowFeedUseCase,
	addUC *usecase.AddFeedUseCase,
	rs *Responder,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *FeedHandler {
	return &FeedHandler{
		listUC:  listUC,
		showUC:  showUC,
		addUC:   addUC,
		rs:      rs,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	list, err := h.listUC.Execute(r.Context(), user.ID, queryOffset(r))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.Render(w, r, "feeds", "Feeds", list)
}

// Edit shows the feed details dialog.
func (h *FeedHandler) Edit(w http.ResponseWriter, r *http.Request) {
	feedID, ok := pathID(r)
	if !ok {
		h.rs.ErrorPage(w, r, http.StatusNotFound, "No such feed.")
		return
	}

	user := middleware.CurrentUser(r)
	detail, err := h.showUC.Execute(r.Context(), user.ID, feedID)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.Render(w, r, "_feed_edit", detail.Feed.DisplayTitle(), detail)
}

type addFeedForm struct {
	SelfLink string
	GroupID  int64
	Groups   []*entity.Group
}

// AddForm shows the first step of the add feed wizard.
func (h *FeedHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderWizard(w, r, addFeedForm{}, valueobject.AlertMessage{})
}

// Add subscribes the user to the posted feed address.
func (h *FeedHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.rs.BadRequest(w, "Malformed form data")
		return
	}

	form := addFeedForm{SelfLink: strings.TrimSpace(r.PostForm.Get("self_link"))}
	if raw := r.PostForm.Get("group"); raw != "" {
		groupID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.rs.BadRequest(w, "Invalid parameter group")
			return
		}
		form.GroupID = groupID
	}

	user := middleware.CurrentUser(r)
	result, err := h.addUC.Execute(r.Context(), usecase.AddFeedInput{
		UserID:   user.ID,
		SelfLink: form.SelfLink,
		GroupID:  form.GroupID,
	})
	if err != nil {
		msg, ok := addFeedAlert(err)
		if !ok {
			h.rs.Error(w, r, err)
			return
		}
		h.metrics.FeedAdded("rejected")
		h.renderWizard(w, r, form, msg)
		return
	}

	var msg valueobject.AlertMessage
	if result.Subscribed {
		h.metrics.FeedAdded("added")
		msg = valueobject.NewAlertMessage(valueobject.AlertSuccess,
			fmt.Sprintf("Feed has been added to %s group", result.Group.Title))
	} else {
		h.metrics.FeedAdded("duplicate")
		msg = valueobject.NewAlertMessage(valueobject.AlertInfo,
			fmt.Sprintf("Feed already in %s group", result.Group.Title))
	}

	h.rs.Modal(w, r, "Add a feed", msg,
		fmt.Sprintf("%s/entries?feed=%d", middleware.ApplicationURL(r), result.Feed.ID),
		"View Feed Entries",
	)
}

func (h *FeedHandler) renderWizard(w http.ResponseWriter, r *http.Request, form addFeedForm, msg valueobject.AlertMessage) {
	user := middleware.CurrentUser(r)
	groups, err := h.addUC.Groups(r.Context(), user.ID)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	form.Groups = groups

	page := h.rs.NewPage(w, r, "Add a feed", form)
	if !msg.IsZero() {
		page.Alert = msg
	}
	h.rs.RenderPage(w, r, "_feed_add_wizard_1", page, http.StatusOK)
}

// addFeedAlert turns the errors a user can fix into an alert.
func addFeedAlert(err error) (valueobject.AlertMessage, bool) {
	var statusErr *usecase.HostStatusError
	switch {
	case errors.Is(err, usecase.ErrInvalidFeedURL):
		return valueobject.NewAlertMessage(valueobject.AlertError, view.Capitalize(err.Error())), true
	case errors.Is(err, usecase.ErrFeedUnreachable):
		return valueobject.NewAlertMessage(valueobject.AlertError, "Error: "+usecase.ErrFeedUnreachable.Error()), true
	case errors.As(err, &statusErr):
		return valueobject.NewAlertMessage(valueobject.AlertError, "Error: "+statusErr.Error()), true
	case errors.Is(err, repository.ErrNotFound):
		return valueobject.NewAlertMessage(valueobject.AlertError, "Please pick an existing group"), true
	default:
		return valueobject.AlertMessage{}, false
	}
}

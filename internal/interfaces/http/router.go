package http

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/Yathushan/coldsweat/internal/application/usecase"
	"github.com/Yathushan/coldsweat/internal/infrastructure/metrics"
	"github.com/Yathushan/coldsweat/internal/infrastructure/session"
	"github.com/Yathushan/coldsweat/internal/interfaces/http/handler"
	"github.com/Yathushan/coldsweat/internal/interfaces/http/middleware"
	"github.com/Yathushan/coldsweat/internal/interfaces/view"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// Deps are the collaborators of the web application. Metrics, LoginLimiter
// and Renderer are optional.
type Deps struct {
	ListEntries  *usecase.ListEntriesUseCase
	ShowEntry    *usecase.ShowEntryUseCase
	MarkEntry    *usecase.MarkEntryUseCase
	MarkAllRead  *usecase.MarkAllReadUseCase
	ListFeeds    *usecase.ListFeedsUseCase
	ShowFeed     *usecase.ShowFeedUseCase
	AddFeed      *usecase.AddFeedUseCase
	Authenticate *usecase.AuthenticateUseCase
	GetStats     *usecase.GetStatsUseCase

	Sessions     sessions.Store
	Renderer     *view.Renderer
	Metrics      *metrics.Metrics
	LoginLimiter func(http.Handler) http.Handler
	Version      string
	Logger       *logger.Logger
}

// NewColdsweatApp builds the web application. staticURL is where pages
// link their stylesheets and scripts; the embedded assets are served under
// /static either way.
func NewColdsweatApp(staticURL string, deps Deps) http.Handler {
	if deps.Renderer == nil {
		deps.Renderer = view.MustNewRenderer()
	}

	rs := handler.NewResponder(deps.Renderer, staticURL, deps.Version, deps.Logger)
	entries := handler.NewEntryHandler(deps.ListEntries, deps.ShowEntry, deps.MarkEntry, deps.MarkAllRead, rs, deps.Logger)
	feeds := handler.NewFeedHandler(deps.ListFeeds, deps.ShowFeed, deps.AddFeed, rs, deps.Metrics, deps.Logger)
	auth := handler.NewAuthHandler(deps.Authenticate, deps.GetStats, rs, deps.Metrics, deps.Logger)
	pages := handler.NewPageHandler(rs)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}

	login := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireLogin(h)
	}

	mux := http.NewServeMux()

	mux.Handle("GET /{$}", login(entries.List))
	mux.Handle("GET /entries", login(entries.List))
	mux.Handle("GET /entries/{$}", login(entries.List))
	mux.Handle("GET /entries/{id}", login(entries.Show))
	mux.Handle("POST /entries/{id}", login(entries.Mark))
	mux.HandleFunc("GET /entries/mark", entries.MarkAllForm)
	mux.Handle("POST /entries/mark", login(entries.MarkAll))

	mux.Handle("GET /feeds", login(feeds.List))
	mux.Handle("GET /feeds/{$}", login(feeds.List))
	mux.Handle("GET /feeds/edit/{id}", login(feeds.Edit))
	mux.Handle("GET /feeds/add", login(feeds.AddForm))
	mux.Handle("POST /feeds/add", login(feeds.Add))

	for _, path := range []string{"/fever", "/guide", "/about"} {
		page := pages.Fever
		switch path {
		case "/guide":
			page = pages.Guide
		case "/about":
			page = pages.About
		}
		mux.HandleFunc("GET "+path, page)
		mux.HandleFunc("GET "+path+"/{$}", page)
	}

	var loginPost http.Handler = http.HandlerFunc(auth.Login)
	if deps.LoginLimiter != nil {
		loginPost = deps.LoginLimiter(loginPost)
	}
	mux.HandleFunc("GET /login", auth.LoginForm)
	mux.HandleFunc("GET /login/{$}", auth.LoginForm)
	mux.Handle("POST /login", loginPost)
	mux.Handle("POST /login/{$}", loginPost)
	mux.HandleFunc("GET /logout", auth.Logout)
	mux.HandleFunc("GET /logout/{$}", auth.Logout)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	mux.HandleFunc("GET /healthz", pages.Healthz)
	mux.HandleFunc("/", pages.NotFound)

	var h http.Handler = middleware.MountRedirects(mux)
	h = middleware.Session(deps.Sessions, session.CookieName, deps.Authenticate.CurrentUser, deps.Logger)(h)
	h = middleware.Compression(h)
	if deps.Metrics != nil {
		h = deps.Metrics.Middleware(h)
	}
	h = middleware.Logger(deps.Logger)(h)
	h = middleware.WithRequestID(h)

	return h
}

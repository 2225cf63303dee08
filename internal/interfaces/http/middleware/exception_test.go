package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Yathushan/coldsweat/pkg/logger"
)

func TestExceptionRecoversPanic(t *testing.T) {
	var logs bytes.Buffer
	panics := 0
	h := Exception(logger.NewWithWriter("error", &logs), ExceptionOptions{
		OnPanic: func() { panics++ },
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/entries", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	if rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("stale Content-Encoding header kept")
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("panic value leaked without debug: %q", rec.Body.String())
	}
	if panics != 1 {
		t.Fatalf("OnPanic called %d times", panics)
	}
	if !strings.Contains(logs.String(), "Panic recovered") || !strings.Contains(logs.String(), "error=boom") {
		t.Fatalf("panic not logged: %q", logs.String())
	}
}

func TestExceptionDebugShowsEscapedTrace(t *testing.T) {
	h := Exception(logger.Discard(), ExceptionOptions{Debug: true})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("<script>")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "&lt;script&gt;") || strings.Contains(body, "<script>") {
		t.Fatalf("trace not escaped: %q", body)
	}
	if !strings.Contains(body, "goroutine") {
		t.Fatalf("stack trace missing")
	}
}

func TestExceptionAfterHeadersOnlyLogs(t *testing.T) {
	h := Exception(logger.Discard(), ExceptionOptions{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		panic("late")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "partial" {
		t.Fatalf("response rewritten after headers were sent: %d %q", rec.Code, rec.Body.String())
	}
}

func TestExceptionReraisesAbortHandler(t *testing.T) {
	h := Exception(logger.Discard(), ExceptionOptions{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if recovered := recover(); recovered != http.ErrAbortHandler {
			t.Fatalf("recovered %v, want http.ErrAbortHandler", recovered)
		}
	}()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Fatalf("ErrAbortHandler was swallowed")
}

func TestExceptionPassesThrough(t *testing.T) {
	h := Exception(logger.Discard(), ExceptionOptions{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}

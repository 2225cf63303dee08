// Package cgi runs an http.Handler as a CGI program: one request read from
// the environment and stdin, one response written to stdout.
package cgi

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cgi"
	"os"
	"strings"

	"github.com/Yathushan/coldsweat/internal/interfaces/http/middleware"
)

var ErrNotCGI = errors.New("REQUEST_METHOD is not set, not running as a CGI program")

// Handler holds the CGI process streams. Env uses the names of RFC 3875
// meta-variables.
type Handler struct {
	Env    map[string]string
	Stdin  io.Reader
	Stdout io.Writer
}

// FromEnvironment binds the handler to the current process.
func FromEnvironment() *Handler {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return &Handler{Env: env, Stdin: os.Stdin, Stdout: os.Stdout}
}

// Run serves the request described by the environment. Paths seen by app
// are relative to SCRIPT_NAME.
func (h *Handler) Run(app http.Handler) error {
	req, err := h.request()
	if err != nil {
		return err
	}

	w := &response{
		header: make(http.Header),
		out:    bufio.NewWriter(h.Stdout),
		head:   req.Method == http.MethodHead,
	}
	app.ServeHTTP(w, req)

	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (h *Handler) request() (*http.Request, error) {
	if h.Env["REQUEST_METHOD"] == "" {
		return nil, ErrNotCGI
	}

	env := make(map[string]string, len(h.Env)+2)
	for k, v := range h.Env {
		env[k] = v
	}
	if env["SERVER_PROTOCOL"] == "" {
		env["SERVER_PROTOCOL"] = "HTTP/1.0"
	}
	if env["HTTP_HOST"] == "" && env["SERVER_NAME"] != "" {
		env["HTTP_HOST"] = hostFromServer(env["SERVER_NAME"], env["SERVER_PORT"], env["HTTPS"])
	}

	req, err := cgi.RequestFromMap(env)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	pathInfo := env["PATH_INFO"]
	if pathInfo == "" {
		pathInfo = "/"
	}
	req.URL.Path = pathInfo
	req.URL.RawPath = ""

	if req.ContentLength > 0 && h.Stdin != nil {
		req.Body = io.NopCloser(io.LimitReader(h.Stdin, req.ContentLength))
	} else {
		req.Body = http.NoBody
	}

	ctx := middleware.WithScriptName(req.Context(), env["SCRIPT_NAME"])
	return req.WithContext(ctx), nil
}

func hostFromServer(name, port, https string) string {
	secure := https == "on" || https == "1"
	if port == "" || (!secure && port == "80") || (secure && port == "443") {
		return name
	}
	return name + ":" + port
}

// response writes the CGI response: a Status line, the headers, a blank
// line and the body. HEAD responses get no body.
type response struct {
	header      http.Header
	out         *bufio.Writer
	head        bool
	wroteHeader bool
}

func (r *response) Header() http.Header {
	return r.header
}

func (r *response) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true

	if r.header.Get("Content-Type") == "" && code != http.StatusNoContent && code != http.StatusNotModified {
		r.header.Set("Content-Type", "text/html; charset=utf-8")
	}

	fmt.Fprintf(r.out, "Status: %d %s\r\n", code, http.StatusText(code))
	_ = r.header.Write(r.out)
	_, _ = r.out.WriteString("\r\n")
}

func (r *response) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		if r.header.Get("Content-Type") == "" {
			r.header.Set("Content-Type", http.DetectContentType(p))
		}
		r.WriteHeader(http.StatusOK)
	}
	if r.head {
		return len(p), nil
	}
	return r.out.Write(p)
}

func (r *response) Flush() {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	_ = r.out.Flush()
}

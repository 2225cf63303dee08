package middleware

import (
	"fmt"
	"html"
	"net/http"
	"runtime/debug"

	"github.com/Yathushan/coldsweat/pkg/logger"
)

// ExceptionOptions tune the Exception middleware.
type ExceptionOptions struct {
	// Debug adds the stack trace to the error page.
	Debug bool
	// OnPanic runs after a panic was recovered, e.g. to count it.
	OnPanic func()
}

// Exception turns a panic raised while serving into a 500 page. When the
// response has already started only the log line is written.
// http.ErrAbortHandler is raised again so the server can abort the response.
func Exception(log *logger.Logger, opts ExceptionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracked := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				stack := debug.Stack()
				log.Error("Panic recovered", fmt.Errorf("%v", recovered),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", RequestID(r.Context()),
					"stack", string(stack),
				)
				if opts.OnPanic != nil {
					opts.OnPanic()
				}

				if tracked.wroteHeader {
					return
				}
				writeErrorPage(w, recovered, stack, opts.Debug)
			}()

			next.ServeHTTP(tracked, r)
		})
	}
}

func writeErrorPage(w http.ResponseWriter, recovered interface{}, stack []byte, withTrace bool) {
	// Headers set by the failed handler, such as Content-Encoding, no
	// longer describe the body.
	header := w.Header()
	for key := range header {
		header.Del(key)
	}
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)

	trace := ""
	if withTrace {
		trace = fmt.Sprintf("<pre>%s\n\n%s</pre>",
			html.EscapeString(fmt.Sprint(recovered)), html.EscapeString(string(stack)))
	}

	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>500 Internal Server Error</title></head>
<body>
<h1>Internal Server Error</h1>
<p>The server encountered an unexpected condition and could not complete the request.</p>
%s
</body>
</html>
`, trace)
}

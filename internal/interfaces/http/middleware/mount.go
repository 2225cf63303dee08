package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// Mount serves next under prefix, the way a CGI server does with
// SCRIPT_NAME. Requests outside prefix get a 404.
func Mount(prefix string) func(http.Handler) http.Handler {
	prefix = strings.TrimSuffix(prefix, "/")

	return func(next http.Handler) http.Handler {
		if prefix == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rest, ok := strings.CutPrefix(r.URL.Path, prefix)
			if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
				http.NotFound(w, r)
				return
			}
			if rest == "" {
				rest = "/"
			}

			r2 := r.WithContext(WithScriptName(r.Context(), prefix))
			r2.URL = new(url.URL)
			*r2.URL = *r.URL
			r2.URL.Path = rest
			r2.URL.RawPath = ""

			next.ServeHTTP(w, r2)
		})
	}
}

// MountRedirects keeps root-relative redirects under the script name. The
// ones ServeMux sends for cleaned paths and subtree roots know nothing of
// the mount point.
func MountRedirects(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := ScriptName(r)
		if prefix == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(&mountedWriter{ResponseWriter: w, prefix: prefix}, r)
	})
}

type mountedWriter struct {
	http.ResponseWriter
	prefix      string
	wroteHeader bool
}

func (mw *mountedWriter) WriteHeader(code int) {
	if !mw.wroteHeader {
		mw.wroteHeader = true
		loc := mw.Header().Get("Location")
		if strings.HasPrefix(loc, "/") && !strings.HasPrefix(loc, "//") && !strings.HasPrefix(loc, mw.prefix+"/") {
			mw.Header().Set("Location", mw.prefix+loc)
		}
	}
	mw.ResponseWriter.WriteHeader(code)
}

func (mw *mountedWriter) Write(b []byte) (int, error) {
	if !mw.wroteHeader {
		mw.WriteHeader(http.StatusOK)
	}
	return mw.ResponseWriter.Write(b)
}

func (mw *mountedWriter) Unwrap() http.ResponseWriter {
	return mw.ResponseWriter
}

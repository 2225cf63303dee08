package view

import (
	"html/template"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
)

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"since":        Since,
		"epoch":        Epoch,
		"filter_query": FilterQuery,
		"data_uri":     DataURI,
		"friendly_url": FriendlyURL,
		"capitalize":   Capitalize,
		"content":      Content,
	}
}

// Since renders a relative time such as "3 hours ago". It accepts time.Time
// and *time.Time; nil and zero times render as "never".
func Since(v interface{}) string {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case *time.Time:
		if tv != nil {
			t = *tv
		}
	}
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

func Epoch(t time.Time) int64 {
	return t.Unix()
}

// FriendlyURL drops the scheme and the trailing slash.
func FriendlyURL(raw string) string {
	s := strings.TrimPrefix(raw, "https://")
	s = strings.TrimPrefix(s, "http://")
	return strings.TrimSuffix(s, "/")
}

func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FilterQuery renders the filter as a query string that html/template
// leaves unescaped, e.g. "feed=3".
func FilterQuery(f valueobject.EntryFilter) template.URL {
	return template.URL(f.QueryString())
}

// DataURI lets stored favicons through the URL sanitizer. Anything but an
// image data URI is dropped.
func DataURI(s string) template.URL {
	if !strings.HasPrefix(s, "data:image/") {
		return template.URL(entity.DefaultFavicon)
	}
	return template.URL(s)
}

// Content returns the entry body. HTML bodies are trusted as published by
// the feed; anything else is escaped.
func Content(e *entity.Entry) template.HTML {
	if e == nil {
		return ""
	}
	if strings.Contains(e.ContentType, "html") {
		return template.HTML(e.Content)
	}
	return template.HTML("<pre>" + template.HTMLEscapeString(e.Content) + "</pre>")
}

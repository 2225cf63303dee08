package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
)

//go:embed templates/*.html
var templateFiles embed.FS

const layoutFile = "layout.html"

// Page is passed to every template. Data holds the page-specific values.
type Page struct {
	StaticURL      string
	ApplicationURL string
	PageTitle      string
	Alert          valueobject.AlertMessage
	User           *entity.User
	Version        string
	Now            time.Time
	Data           interface{}
}

// Renderer executes the embedded templates. Names starting with "_" are
// fragments loaded into modals and render without the layout.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	layout, err := template.New(layoutFile).Funcs(Funcs()).ParseFS(templateFiles, "templates/"+layoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(names))}
	for _, file := range names {
		base := path.Base(file)
		if base == layoutFile {
			continue
		}
		name := strings.TrimSuffix(base, ".html")

		var t *template.Template
		if isFragment(name) {
			t, err = template.New(base).Funcs(Funcs()).ParseFS(templateFiles, file)
		} else {
			t, err = template.Must(layout.Clone()).ParseFS(templateFiles, file)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", base, err)
		}
		r.templates[name] = t
	}

	return r, nil
}

// MustNewRenderer panics when the embedded templates do not parse.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named template into w. Output is buffered so a failing
// template writes nothing.
func (r *Renderer) Render(w io.Writer, name string, page *Page) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	entry := "layout"
	if isFragment(name) {
		entry = name + ".html"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, entry, page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

func isFragment(name string) bool {
	return strings.HasPrefix(name, "_")
}

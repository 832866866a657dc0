package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ratify/ratify-web/internal/api/middleware"
	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/state"
	"github.com/ratify/ratify-web/internal/core/view"
)

//go:embed templates/*.tmpl
var tplFS embed.FS

// Renderer renders one page template inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"percent": func(p *domain.SignerProgress) string {
		if p == nil {
			return "0"
		}
		return fmt.Sprintf("%.0f", p.Percent())
	},
	"seen": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Local().Format("Jan 2, 2006 3:04 PM")
	},
	"millis": func(d time.Duration) int64 { return d.Milliseconds() },
	"seconds": func(d time.Duration) int {
		return int((d + time.Second - 1) / time.Second)
	},
	"hasAction": func(actions []view.CardAction, a string) bool {
		for _, x := range actions {
			if string(x) == a {
				return true
			}
		}
		return false
	},
}

// shared templates are parsed into every page.
var shared = []string{"templates/layout.tmpl", "templates/partials.tmpl"}

// NewRenderer parses every page against the shared templates.
func NewRenderer() (*Renderer, error) {
	all, err := fs.Glob(tplFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}
	out := make(map[string]*template.Template)
	for _, f := range all {
		if slices.Contains(shared, f) {
			continue
		}
		t := template.New("layout").Funcs(funcs)
		if _, err := t.ParseFS(tplFS, append(slices.Clone(shared), f)...); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		out[strings.TrimSuffix(path.Base(f), ".tmpl")] = t
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return &Renderer{pages: out}, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Refresh asks the browser to navigate after a delay.
type Refresh struct {
	URL     string
	Seconds int
}

// Page is the data every template receives.
type Page struct {
	Title       string
	State       state.Snapshot
	Toasts      []view.Toast
	Locales     []domain.LocaleOption
	ThemeColors []string
	Path        string
	Refresh     *Refresh
	Data        any
}

// render wraps data in a Page for the current session and draws the
// pending toasts.
func render(c echo.Context, code int, name, title string, data any, refresh *Refresh) error {
	p := Page{
		Title:       title,
		Locales:     domain.LocaleOptions,
		ThemeColors: domain.ThemeColors,
		Path:        c.Request().URL.RequestURI(),
		Refresh:     refresh,
		Data:        data,
	}
	if s, ok := middleware.CurrentSession(c); ok {
		p.State = s.Store.Snapshot()
		p.Toasts = s.DrainToasts()
	} else {
		p.State = state.NewStore().Snapshot()
	}
	return c.Render(code, name, p)
}

// statusFor picks 422 for a re-rendered form with errors.
func statusFor(invalid bool) int {
	if invalid {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

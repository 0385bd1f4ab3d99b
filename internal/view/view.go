// Package view is the single rendering path of the portal: handlers
// build typed view models and every page is produced by one template
// over that state, never by ad hoc markup edits.
package view

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/jeevanhealth/portal/internal/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// CSS is the portal stylesheet, served at /static/portal.css.
//
//go:embed static/portal.css
var CSS []byte

var funcMap = template.FuncMap{
	// dash stands in for optional upstream fields that arrive empty.
	"dash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
	"money": func(v float64) string {
		return fmt.Sprintf("Rs. %.2f", v)
	},
	// badge maps an upstream status token to a bootstrap badge class.
	"badge": func(status any) string {
		switch fmt.Sprint(status) {
		case "PAID", "COMPLETED":
			return "bg-success"
		case "CANCELLED":
			return "bg-secondary"
		case "PENDING", "UNPAID":
			return "bg-warning text-dark"
		default:
			return "bg-info text-dark"
		}
	},
}

// NewTemplates parses the embedded template set.
func NewTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// Page is the shared view model every template starts from.
type Page struct {
	Title   string
	Nav     Nav
	Flashes []session.Flash
}

// NewPage assembles the shared model; sess may be nil on public pages.
// Queued flash messages are consumed.
func NewPage(title string, sess *session.Session) Page {
	p := Page{Title: title}
	if sess != nil {
		p.Nav = NavFor(sess.User.Role, sess.User.DisplayName())
		p.Flashes = sess.TakeFlashes()
	} else {
		p.Nav = NavFor("", "")
	}
	return p
}

// Package views renders the pages of the site. Each page is a
// templ.Component over an embedded html/template so every value is
// escaped for its context.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"pathEscape": PathEscape,
	"fileIDPath": FileIDPath,
	"formatTime": FormatTime,
	"adminURL":   AdminURL,
}

var pageNames = []string{
	"login", "register", "gallery", "detail", "loading",
	"edit", "admin", "profile", "not_found", "server_error",
}

var pages = parsePages()

func parsePages() map[string]*template.Template {
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		out[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(files,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return out
}

// view is what every template executes against.
type view struct {
	Page
	Data any
}

func page(name, title string, p Page, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		if p.Title == "" {
			p.Title = title
		}
		return t.ExecuteTemplate(w, "layout", view{Page: p, Data: data})
	})
}

// Login renders the login form. email refills the field after a failure.
func Login(p Page, email string) templ.Component {
	return page("login", "login.title", p, AuthData{Email: email})
}

// Register renders the register form.
func Register(p Page, email string) templ.Component {
	return page("register", "register.title", p, AuthData{Email: email})
}

// Gallery renders the signed-in user's image grid.
func Gallery(p Page, d GalleryData) templ.Component {
	return page("gallery", "nav.gallery", p, d)
}

// Detail renders one image, or the loading state until it is ready.
func Detail(p Page, d DetailData) templ.Component {
	if !d.Ready {
		return Loading(p)
	}
	return page("detail", "detail.image_alt", p, d)
}

// Loading renders the placeholder of a view whose data has not arrived.
func Loading(p Page) templ.Component {
	return page("loading", "detail.loading", p, nil)
}

// Edit renders the edit form of one image.
func Edit(p Page, d EditData) templ.Component {
	return page("edit", "edit.title", p, d)
}

// Admin renders the review table.
func Admin(p Page, d AdminData) templ.Component {
	return page("admin", "nav.admin", p, d)
}

// Profile renders the signed-in user's info.
func Profile(p Page) templ.Component {
	return page("profile", "profile.title", p, nil)
}

func NotFound(p Page) templ.Component {
	return page("not_found", "error.not_found", p, nil)
}

func ServerError(p Page) templ.Component {
	return page("server_error", "error.server", p, nil)
}

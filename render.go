package gallerydesk

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/gallerydesk/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// page builds the layout data for the current request. A language picked
// with ?lang= is remembered in a cookie.
func (a *App) page(c echo.Context) views.Page {
	tag, persist := views.ResolveTag(c.Request())
	if persist {
		views.SetLanguageCookie(c.Response(), tag)
	}
	p := views.NewPage(a.site, tag)
	p.Path = c.Request().URL.Path
	p.Query = c.Request().URL.Query()
	p.CSRF = CsrfToken(c)

	s := currentSession(c)
	if !s.LoggedIn() && a.Sessions != nil {
		// Pages outside requireSession still show who is signed in.
		s, _ = a.Sessions.Load(c)
	}
	p.LoggedIn = s.LoggedIn()
	p.IsAdmin = s.IsAdmin
	p.Email = s.Email
	return p
}

func alert(key string) views.Alert {
	return views.Alert{Key: key, Error: true}
}

func dialog(key string) views.Alert {
	return views.Alert{Key: key, Dialog: true}
}

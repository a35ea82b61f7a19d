package gallerydesk

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eringen/gallerydesk/api"
	"github.com/eringen/gallerydesk/blobstore"
	"github.com/eringen/gallerydesk/gallery"
	gsession "github.com/eringen/gallerydesk/session"
	"github.com/eringen/gallerydesk/views"
)

// client returns the backend client bound to the signed-in user's token.
func (a *App) client(c echo.Context) *api.Client {
	return a.API.WithToken(currentSession(c).Token)
}

func (a *App) fetcher(c echo.Context) *gallery.Fetcher {
	return &gallery.Fetcher{
		Source:    a.client(c),
		Resources: a.Blobs,
		Limit:     a.Config.FetchConcurrency,
		Transform: a.thumbnail,
	}
}

// expired handles a backend 401 by clearing the session and sending the
// user to log in again. It reports whether err was handled.
func (a *App) expired(c echo.Context, err error) (bool, error) {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false, nil
	}
	if cerr := a.Sessions.Clear(c); cerr != nil {
		return true, cerr
	}
	return true, c.Redirect(http.StatusSeeOther, "/login/?expired=1")
}

func blobURL(h blobstore.Handle) string {
	if h == "" {
		return ""
	}
	return "/blobs/" + url.PathEscape(string(h))
}

func (a *App) handleLoginForm(c echo.Context) error {
	p := a.page(c)
	switch {
	case c.QueryParam("expired") != "":
		p = p.WithAlert(alert("login.expired"))
	case c.QueryParam("registered") != "":
		p = p.WithAlert(views.Alert{Key: "register.done"})
	}
	return Render(c, views.Login(p, ""))
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	creds := api.Credentials{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	if a.failedLogins.Locked(ip) {
		return RenderStatus(c, http.StatusTooManyRequests,
			views.Login(a.page(c).WithAlert(alert("login.error.rate")), creds.Email))
	}

	s, err := a.Gate.Login(c.Request().Context(), creds)
	if err != nil {
		key := "login.error.invalid"
		switch {
		case errors.Is(err, gsession.ErrMissingFields):
			key = "login.error.missing"
		case errors.Is(err, gsession.ErrInvalidEmail):
			key = "login.error.email"
		default:
			left := a.failedLogins.Fail(ip)
			c.Logger().Warnf("login failed for %s (%d attempts left): %v", creds.Email, left, err)
		}
		return Render(c, views.Login(a.page(c).WithAlert(alert(key)), creds.Email))
	}

	a.failedLogins.Clear(ip)
	if err := a.Sessions.Save(c, s); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleRegisterForm(c echo.Context) error {
	return Render(c, views.Register(a.page(c), ""))
}

func (a *App) handleRegister(c echo.Context) error {
	creds := api.Credentials{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	if err := a.Gate.Register(c.Request().Context(), creds); err != nil {
		key := "register.error.failed"
		switch {
		case errors.Is(err, gsession.ErrMissingFields):
			key = "login.error.missing"
		case errors.Is(err, gsession.ErrInvalidEmail):
			key = "login.error.email"
		default:
			c.Logger().Warnf("register failed for %s: %v", creds.Email, err)
		}
		return Render(c, views.Register(a.page(c).WithAlert(alert(key)), creds.Email))
	}
	return c.Redirect(http.StatusSeeOther, "/login/?registered=1")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := a.Sessions.Clear(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/login/")
}

func (a *App) handleProfile(c echo.Context) error {
	return Render(c, views.Profile(a.page(c)))
}

func galleryData(g *gallery.Gallery) views.GalleryData {
	images := g.Images()
	cards := make([]views.Card, 0, len(images))
	for _, r := range images {
		h, _ := g.Handle(r.FileID)
		cards = append(cards, views.Card{Record: r, ImageURL: blobURL(h)})
	}
	return views.GalleryData{Query: g.Query(), Cards: cards}
}

func (a *App) handleGallery(c echo.Context) error {
	g := gallery.NewGallery(a.client(c), a.fetcher(c))
	if err := g.Search(c.Request().Context(), c.QueryParam("q")); err != nil {
		if ok, rerr := a.expired(c, err); ok {
			return rerr
		}
		c.Logger().Warnf("gallery: %v", err)
	}
	return Render(c, views.Gallery(a.page(c), galleryData(g)))
}

func (a *App) handleDelete(c echo.Context) error {
	ctx := c.Request().Context()
	fileID := c.Param("file_id")

	// A rejected id sends no DELETE, and the page is re-listed without
	// fetching binaries.
	var fetch *gallery.Fetcher
	if gallery.ValidFileID(fileID) {
		fetch = a.fetcher(c)
	}
	g := gallery.NewGallery(a.client(c), fetch)
	if err := g.Search(ctx, c.FormValue("q")); err != nil {
		if ok, rerr := a.expired(c, err); ok {
			return rerr
		}
		c.Logger().Warnf("gallery: %v", err)
	}

	p := a.page(c)
	err := g.Delete(ctx, fileID)
	switch {
	case err == nil:
		p = p.WithAlert(dialog("gallery.deleted"))
	case errors.Is(err, gallery.ErrInvalidFileID):
		c.Logger().Warnf("delete rejected: %v", err)
		p = p.WithAlert(dialog("gallery.invalid_id"))
	default:
		if ok, rerr := a.expired(c, err); ok {
			return rerr
		}
		c.Logger().Errorf("delete failed: %v", err)
		p = p.WithAlert(dialog("gallery.delete_failed"))
	}
	return Render(c, views.Gallery(p, galleryData(g)))
}

func (a *App) handleDetail(c echo.Context) error {
	d := gallery.NewDetail(a.client(c), a.fetcher(c), c.Param("file_id"))
	if err := d.Load(c.Request().Context()); err != nil {
		if ok, rerr := a.expired(c, err); ok {
			return rerr
		}
		c.Logger().Warnf("detail: %v", err)
	}
	return Render(c, views.Detail(a.page(c), views.DetailData{
		FileID:   d.FileID,
		Record:   d.Record,
		ImageURL: blobURL(d.Handle),
		Ready:    d.Ready,
	}))
}

func (a *App) handleEditForm(c echo.Context) error {
	ed := gallery.NewEditor(a.client(c), c.Param("file_id"))
	if err := ed.Load(c.Request().Context()); err != nil {
		if ok, rerr := a.expired(c, err); ok {
			return rerr
		}
		if errors.Is(err, gallery.ErrInvalidFileID) {
			return echo.ErrNotFound
		}
		c.Logger().Warnf("edit: %v", err)
	}
	return Render(c, views.Edit(a.page(c), views.EditData{
		FileID:         ed.FileID,
		Title:          ed.Title,
		Interpretation: ed.Interpretation,
	}))
}

func (a *App) handleEdit(c echo.Context) error {
	ed := gallery.NewEditor(a.client(c), c.Param("file_id"))
	ed.Title = c.FormValue("title")
	ed.Interpretation = c.FormValue("interpretation")

	if _, err := ed.Save(c.Request().Context()); err != nil {
		if ok, rerr := a.expired(c, err); ok {
			return rerr
		}
		if errors.Is(err, gallery.ErrInvalidFileID) {
			return echo.ErrNotFound
		}
		c.Logger().Errorf("edit save failed: %v", err)
		return Render(c, views.Edit(a.page(c).WithAlert(alert("edit.save_failed")), views.EditData{
			FileID:         ed.FileID,
			Title:          ed.Title,
			Interpretation: ed.Interpretation,
		}))
	}
	return c.Redirect(http.StatusSeeOther, "/images/"+url.PathEscape(ed.FileID)+"/")
}

func (a *App) handleBlob(c echo.Context) error {
	blob, err := a.Blobs.Get(c.Request().Context(), blobstore.Handle(c.Param("handle")))
	if errors.Is(err, blobstore.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	contentType := blob.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(http.StatusOK, contentType, blob.Data)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.page(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.page(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

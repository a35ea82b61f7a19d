package gallerydesk

import (
	"github.com/labstack/echo/v4"

	"github.com/eringen/gallerydesk/gallery"
	"github.com/eringen/gallerydesk/views"
)

// adminView builds the admin table for this request with its menu mounted
// on bus and the uploader filter applied. The view is returned even when
// loading fails; callers must Unmount it.
func (a *App) adminView(c echo.Context, bus *gallery.PointerBus, user string) (*gallery.Admin, error) {
	adm := gallery.NewAdmin(a.client(c), a.fetcher(c))
	adm.Mount(bus)
	err := adm.Load(c.Request().Context())
	if user == "" {
		adm.ShowAll()
	} else {
		adm.FilterByUser(user)
	}
	return adm, err
}

func adminData(adm *gallery.Admin) views.AdminData {
	rows := adm.Visible()
	cards := make([]views.Card, 0, len(rows))
	for _, r := range rows {
		h, _ := adm.Handle(r.FileID)
		cards = append(cards, views.Card{Record: r, ImageURL: blobURL(h)})
	}
	return views.AdminData{
		Users:      adm.Users(),
		Selected:   adm.Selected(),
		MenuOpen:   adm.Menu.IsOpen(),
		MenuRegion: adm.Menu.Region(),
		Rows:       cards,
	}
}

func (a *App) handleAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	bus := gallery.NewPointerBus()
	adm, err := a.adminView(c, bus, c.QueryParam("user"))
	defer adm.Unmount()
	if err != nil {
		if ok, rerr := a.expired(c, err); ok {
			return rerr
		}
		c.Logger().Warnf("admin: %v", err)
	}

	if c.QueryParam("menu") == "open" {
		adm.Menu.Toggle()
	}
	switch c.QueryParam("pointer") {
	case "outside":
		bus.Publish(gallery.PointerEvent{Target: "page"})
	case "menu":
		bus.Publish(gallery.PointerEvent{Target: adm.Menu.Region()})
	}

	p := a.page(c)
	var preview string
	if fileID := c.QueryParam("preview"); fileID != "" {
		h, err := adm.Preview(ctx, fileID)
		if err != nil {
			c.Logger().Warnf("admin preview: %v", err)
		} else {
			preview = blobURL(h)
		}
	}

	adm.FetchThumbnails(ctx)
	data := adminData(adm)
	data.PreviewURL = preview
	if id := c.QueryParam("edit"); id != "" {
		if rec, ok := adm.Image(id); ok {
			data.Editing = &rec
		} else {
			p = p.WithAlert(alert("admin.not_found"))
		}
	}
	return Render(c, views.Admin(p, data))
}

func (a *App) handleAdminUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	bus := gallery.NewPointerBus()
	adm, err := a.adminView(c, bus, c.FormValue("user"))
	defer adm.Unmount()
	if err != nil {
		if ok, rerr := a.expired(c, err); ok {
			return rerr
		}
		c.Logger().Warnf("admin: %v", err)
	}

	p := a.page(c)
	if _, err := adm.Update(ctx, c.Param("id"), c.FormValue("title"), c.FormValue("interpretation")); err != nil {
		if ok, rerr := a.expired(c, err); ok {
			return rerr
		}
		c.Logger().Errorf("admin update failed: %v", err)
		p = p.WithAlert(dialog("admin.save_failed"))
	} else {
		p = p.WithAlert(views.Alert{Key: "admin.saved"})
	}

	adm.FetchThumbnails(ctx)
	return Render(c, views.Admin(p, adminData(adm)))
}

package views

import (
	"net/url"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eringen/gallerydesk/api"
)

// SiteConfig holds the site-wide settings every page is rendered with.
type SiteConfig struct {
	Name string // SITE_NAME (default "Gallery Desk")
}

// Alert is a message shown with a page. Dialog alerts block the page until
// dismissed; the others render inline above the form.
type Alert struct {
	Key    string // message key
	Error  bool
	Dialog bool
}

// Page carries what the layout needs on every request.
type Page struct {
	Site     SiteConfig
	Title    string // message key
	Path     string
	Query    url.Values
	CSRF     string
	Lang     language.Tag
	LoggedIn bool
	IsAdmin  bool
	Email    string
	Alert    *Alert

	printer *message.Printer
}

// NewPage creates a page rendered in lang.
func NewPage(site SiteConfig, lang language.Tag) Page {
	return Page{Site: site, Lang: lang, printer: Printer(lang)}
}

// T translates a message key into the page language.
func (p Page) T(key string, args ...any) string {
	if p.printer == nil {
		return Printer(language.English).Sprintf(key, args...)
	}
	return p.printer.Sprintf(key, args...)
}

// LangCode returns the BCP 47 code of the page language.
func (p Page) LangCode() string {
	base, _ := p.Lang.Base()
	return base.String()
}

// LangURL links to the current page in lang, keeping the rest of the query.
func (p Page) LangURL(lang string) string {
	q := url.Values{}
	for k, v := range p.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("lang", lang)
	return p.Path + "?" + q.Encode()
}

// WithAlert returns a copy of p showing a.
func (p Page) WithAlert(a Alert) Page {
	p.Alert = &a
	return p
}

// Card is one image in a grid or table row. ImageURL is empty when the
// binary could not be fetched.
type Card struct {
	Record   api.ImageRecord
	ImageURL string
}

// AuthData is the login and register form.
type AuthData struct {
	Email string
}

// GalleryData is the image grid with its search box.
type GalleryData struct {
	Query string
	Cards []Card
}

// DetailData is the single image view.
type DetailData struct {
	FileID   string
	Record   api.ImageRecord
	ImageURL string
	Ready    bool
}

// EditData is the edit form of one image.
type EditData struct {
	FileID         string
	Title          string
	Interpretation string
}

// AdminData is the admin review table with its menu and modals.
type AdminData struct {
	Users      []api.UserRecord
	Selected   string
	MenuOpen   bool
	MenuRegion string
	Rows       []Card
	Editing    *api.ImageRecord
	PreviewURL string
}

// Package gallerydesk is the web frontend of the image upload service.
// It renders the login, gallery, detail, edit and admin pages on the
// server and talks to the image REST backend on the user's behalf.
//
// The backend owns authentication, storage and persistence; gallerydesk
// keeps only the signed-in session cookie and short-lived handles to the
// image content it fetched.
package gallerydesk

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/gallerydesk/api"
	"github.com/eringen/gallerydesk/blobstore"
	"github.com/eringen/gallerydesk/gallery"
	"github.com/eringen/gallerydesk/session"
	"github.com/eringen/gallerydesk/views"
)

// App is the central gallerydesk application. It wires together the
// backend client, blob store, sessions, handlers and middleware.
type App struct {
	Config   Config
	Echo     *echo.Echo
	API      *api.Client
	Blobs    blobstore.Store
	Sessions session.Store
	Gate     *session.Gate

	site         views.SiteConfig
	failedLogins *FailedLogins
	thumbnail    gallery.Transform
	customRoutes []func(*App)
	ready        bool
}

// New creates a new App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		site:   views.SiteConfig{Name: cfg.Name},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup validates the configuration and builds the backend client, blob
// store, middleware and routes. Start calls it; tests call it directly to
// serve a.Echo.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if err := a.Config.validate(); err != nil {
		return err
	}

	a.API = api.New(a.Config.APIURL, api.WithTimeout(a.Config.APITimeout))
	a.Gate = session.NewGate(a.API)
	a.Sessions = session.NewCookieSessions()

	if a.Blobs == nil {
		store, err := blobstore.New(a.Config.blobConfig())
		if err != nil {
			return fmt.Errorf("gallerydesk: init blob store: %w", err)
		}
		a.Blobs = store
	}

	a.failedLogins = NewFailedLogins(5, time.Minute)
	a.thumbnail = thumbnailer(a.Config.ThumbnailWidth)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

// Start sets the app up and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS)))))

	// Session routes
	e.GET("/login/", a.handleLoginForm)
	e.POST("/login/", a.handleLogin)
	e.GET("/register/", a.handleRegisterForm)
	e.POST("/register/", a.handleRegister)
	e.POST("/logout/", a.handleLogout)

	// Signed-in routes
	e.GET("/", a.handleGallery, a.requireSession)
	e.GET("/profile/", a.handleProfile, a.requireSession)
	e.GET("/images/:file_id/", a.handleDetail, a.requireSession)
	e.GET("/images/:file_id/edit/", a.handleEditForm, a.requireSession)
	e.POST("/images/:file_id/edit/", a.handleEdit, a.requireSession)
	e.POST("/images/:file_id/delete/", a.handleDelete, a.requireSession)
	e.GET("/blobs/:handle", a.handleBlob, a.requireSession)

	// Admin routes
	admin := e.Group("/admin", a.requireSession, a.requireAdmin)
	admin.GET("/", a.handleAdmin)
	admin.POST("/images/:id/", a.handleAdminUpdate)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.failedLogins != nil {
		a.failedLogins.Stop()
	}
	if a.Blobs != nil {
		return a.Blobs.Close()
	}
	return nil
}

// Package gallery holds the state and data flow of the frontend views:
// the user's gallery, one image's detail and edit views, and the admin
// review table. Each view is built per request and owns its state.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eringen/gallerydesk/api"
	"github.com/eringen/gallerydesk/blobstore"
)

// ErrInvalidFileID is returned when an operation is given a missing file
// identifier. No backend call is made.
var ErrInvalidFileID = errors.New("gallery: invalid file id")

// ValidFileID reports whether id can address a binary on the backend.
func ValidFileID(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && id != "undefined"
}

// Backend is the part of the API the gallery, detail and edit views use.
type Backend interface {
	BinarySource
	ListImages(ctx context.Context) ([]api.ImageRecord, error)
	SearchImages(ctx context.Context, query string) ([]api.ImageRecord, error)
	ImageDetails(ctx context.Context, fileID string) (api.ImageRecord, error)
	UpdateImage(ctx context.Context, fileID string, u api.ImageUpdate) (api.ImageRecord, error)
	DeleteImage(ctx context.Context, fileID string) error
}

// Gallery is the signed-in user's image grid.
type Gallery struct {
	backend Backend
	fetch   *Fetcher
	images  *Collection
	handles map[string]blobstore.Handle
	query   string
}

// NewGallery creates an empty gallery view. With a nil fetch the
// records are listed without their binaries.
func NewGallery(backend Backend, fetch *Fetcher) *Gallery {
	return &Gallery{
		backend: backend,
		fetch:   fetch,
		images:  NewCollection(nil, ByFileID),
		handles: map[string]blobstore.Handle{},
	}
}

// Load replaces the list with the user's images and fetches their binaries.
func (g *Gallery) Load(ctx context.Context) error {
	records, err := g.backend.ListImages(ctx)
	if err != nil {
		return fmt.Errorf("gallery: list images: %w", err)
	}
	g.query = ""
	g.show(ctx, records)
	return nil
}

// Search replaces the list with the backend's results for query. A blank
// query loads the full list.
func (g *Gallery) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return g.Load(ctx)
	}
	records, err := g.backend.SearchImages(ctx, query)
	if err != nil {
		return fmt.Errorf("gallery: search %q: %w", query, err)
	}
	g.query = query
	g.show(ctx, records)
	return nil
}

func (g *Gallery) show(ctx context.Context, records []api.ImageRecord) {
	g.images = NewCollection(records, ByFileID)
	if g.fetch == nil {
		return
	}
	ids := make([]string, 0, len(records))
	for _, r := range g.images.All() {
		if _, ok := g.handles[r.FileID]; !ok {
			ids = append(ids, r.FileID)
		}
	}
	for id, h := range g.fetch.FetchAll(ctx, ids) {
		g.handles[id] = h
	}
}

// Delete removes fileID on the backend, then drops exactly that entry and
// revokes its handle. Missing identifiers fail with ErrInvalidFileID
// before any network call.
func (g *Gallery) Delete(ctx context.Context, fileID string) error {
	if !ValidFileID(fileID) {
		return fmt.Errorf("%w: %q", ErrInvalidFileID, fileID)
	}
	if err := g.backend.DeleteImage(ctx, fileID); err != nil {
		return fmt.Errorf("gallery: delete %s: %w", fileID, err)
	}
	g.images.Remove(fileID)
	if h, ok := g.handles[fileID]; ok {
		g.fetch.revoke(ctx, h)
		delete(g.handles, fileID)
	}
	return nil
}

// Images returns the listed records in backend order.
func (g *Gallery) Images() []api.ImageRecord {
	return g.images.All()
}

// Query returns the active search query, empty for the full list.
func (g *Gallery) Query() string {
	return g.query
}

// Handle returns the thumbnail handle of fileID, if its fetch succeeded.
func (g *Gallery) Handle(fileID string) (blobstore.Handle, bool) {
	h, ok := g.handles[fileID]
	return h, ok
}

// Handles returns a copy of the file id to handle mapping.
func (g *Gallery) Handles() map[string]blobstore.Handle {
	out := make(map[string]blobstore.Handle, len(g.handles))
	for k, v := range g.handles {
		out[k] = v
	}
	return out
}

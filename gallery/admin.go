package gallery

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/gallerydesk/api"
	"github.com/eringen/gallerydesk/blobstore"
)

// MenuRegion is the page region the admin user menu is bound to.
const MenuRegion = "user-menu"

// AdminBackend is the part of the API the admin view uses.
type AdminBackend interface {
	BinarySource
	AdminImages(ctx context.Context) ([]api.ImageRecord, error)
	AdminUsers(ctx context.Context) ([]api.UserRecord, error)
	AdminUpdateImage(ctx context.Context, id string, u api.AdminImageUpdate) (api.ImageRecord, error)
}

// Admin is the review table of every user's images. Records are held once,
// keyed by record id; the visible rows are derived from them.
type Admin struct {
	Menu *Dropdown

	backend  AdminBackend
	fetch    *Fetcher
	images   *Collection
	users    []api.UserRecord
	handles  map[string]blobstore.Handle
	selected string
}

// NewAdmin creates an empty admin view.
func NewAdmin(backend AdminBackend, fetch *Fetcher) *Admin {
	return &Admin{
		Menu:    NewDropdown(MenuRegion),
		backend: backend,
		fetch:   fetch,
		images:  NewCollection(nil, ByRecordID),
		handles: map[string]blobstore.Handle{},
	}
}

// Mount attaches the view's components to the page's pointer events.
func (a *Admin) Mount(bus *PointerBus) {
	a.Menu.Mount(bus)
}

// Unmount detaches everything Mount attached.
func (a *Admin) Unmount() {
	a.Menu.Unmount()
}

// Load fetches images and users concurrently. A failed users fetch leaves
// the menu empty; a failed images fetch is returned.
func (a *Admin) Load(ctx context.Context) error {
	var (
		images []api.ImageRecord
		users  []api.UserRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		images, err = a.backend.AdminImages(gctx)
		if err != nil {
			return fmt.Errorf("gallery: admin images: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if users, err = a.backend.AdminUsers(gctx); err != nil {
			slog.Warn("gallery: admin users fetch failed", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	a.images = NewCollection(images, ByRecordID)
	a.users = users
	return nil
}

// FetchThumbnails fetches binaries for the visible rows that have none yet.
func (a *Admin) FetchThumbnails(ctx context.Context) {
	var ids []string
	for _, r := range a.Visible() {
		if _, ok := a.handles[r.FileID]; !ok {
			ids = append(ids, r.FileID)
		}
	}
	for id, h := range a.fetch.FetchAll(ctx, ids) {
		a.handles[id] = h
	}
}

// FilterByUser shows only images uploaded by email and closes the menu.
func (a *Admin) FilterByUser(email string) {
	a.selected = email
	a.Menu.Select()
}

// ShowAll clears the uploader filter and closes the menu.
func (a *Admin) ShowAll() {
	a.selected = ""
	a.Menu.Select()
}

// Selected returns the uploader email being filtered on, empty for all.
func (a *Admin) Selected() string {
	return a.selected
}

// All returns every image, newest first.
func (a *Admin) All() []api.ImageRecord {
	out := a.images.All()
	SortNewestFirst(out)
	return out
}

// Visible returns the rows to show: the images of the selected uploader, or
// every image, newest first.
func (a *Admin) Visible() []api.ImageRecord {
	var out []api.ImageRecord
	if a.selected == "" {
		out = a.images.All()
	} else {
		out = a.images.Filter(func(r api.ImageRecord) bool {
			return r.UserEmail == a.selected
		})
	}
	SortNewestFirst(out)
	return out
}

// Users returns the users offered in the filter menu.
func (a *Admin) Users() []api.UserRecord {
	return a.users
}

// Image returns the record with the given id.
func (a *Admin) Image(id string) (api.ImageRecord, bool) {
	return a.images.Get(id)
}

// Handle returns the thumbnail handle of fileID.
func (a *Admin) Handle(fileID string) (blobstore.Handle, bool) {
	h, ok := a.handles[fileID]
	return h, ok
}

// Update saves a new title and interpretation, clears the new flag, and
// swaps the returned record in at the same position.
func (a *Admin) Update(ctx context.Context, id, title, interpretation string) (api.ImageRecord, error) {
	rec, err := a.backend.AdminUpdateImage(ctx, id, api.AdminImageUpdate{
		Title:          title,
		Interpretation: interpretation,
		IsNew:          false,
	})
	if err != nil {
		return api.ImageRecord{}, fmt.Errorf("gallery: admin update %s: %w", id, err)
	}
	a.Apply(rec)
	return rec, nil
}

// Apply replaces the stored record with the same id as rec. Fields the
// backend omitted from rec are kept from the stored copy.
func (a *Admin) Apply(rec api.ImageRecord) bool {
	prev, ok := a.images.Get(rec.ID)
	if !ok {
		return false
	}
	if rec.FileID == "" {
		rec.FileID = prev.FileID
	}
	if rec.UserEmail == "" {
		rec.UserEmail = prev.UserEmail
	}
	if rec.UploadTime.IsZero() {
		rec.UploadTime = prev.UploadTime
	}
	return a.images.Replace(rec)
}

// Preview fetches fileID at full size for the image modal.
func (a *Admin) Preview(ctx context.Context, fileID string) (blobstore.Handle, error) {
	h, err := a.fetch.Fetch(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("gallery: preview %s: %w", fileID, err)
	}
	return h, nil
}

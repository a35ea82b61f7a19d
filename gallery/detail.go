package gallery

import (
	"context"
	"fmt"

	"github.com/eringen/gallerydesk/api"
	"github.com/eringen/gallerydesk/blobstore"
)

// Detail is the single-image view. It is Ready only once both the binary
// and the metadata loaded.
type Detail struct {
	FileID string
	Record api.ImageRecord
	Handle blobstore.Handle
	Ready  bool

	backend Backend
	fetch   *Fetcher
}

// NewDetail creates the detail view of fileID.
func NewDetail(backend Backend, fetch *Fetcher, fileID string) *Detail {
	return &Detail{FileID: fileID, backend: backend, fetch: fetch}
}

// Load fetches the binary, then the metadata. On failure the view stays
// not ready and a handle minted along the way is revoked.
func (d *Detail) Load(ctx context.Context) error {
	h, err := d.fetch.Fetch(ctx, d.FileID)
	if err != nil {
		return fmt.Errorf("gallery: detail binary %s: %w", d.FileID, err)
	}
	rec, err := d.backend.ImageDetails(ctx, d.FileID)
	if err != nil {
		d.fetch.revoke(ctx, h)
		return fmt.Errorf("gallery: detail metadata %s: %w", d.FileID, err)
	}
	d.Handle = h
	d.Record = rec
	d.Ready = true
	return nil
}

// Editor is the edit form of one image's title and interpretation.
type Editor struct {
	FileID         string
	Record         api.ImageRecord
	Title          string
	Interpretation string
	Ready          bool

	backend Backend
}

// NewEditor creates the edit view of fileID.
func NewEditor(backend Backend, fileID string) *Editor {
	return &Editor{FileID: fileID, backend: backend}
}

// Load copies the current metadata into the editable fields.
func (e *Editor) Load(ctx context.Context) error {
	if !ValidFileID(e.FileID) {
		return fmt.Errorf("%w: %q", ErrInvalidFileID, e.FileID)
	}
	rec, err := e.backend.ImageDetails(ctx, e.FileID)
	if err != nil {
		return fmt.Errorf("gallery: edit metadata %s: %w", e.FileID, err)
	}
	e.Record = rec
	e.Title = rec.Title
	e.Interpretation = rec.Interpretation
	e.Ready = true
	return nil
}

// Save submits the edited fields as a full replacement.
func (e *Editor) Save(ctx context.Context) (api.ImageRecord, error) {
	if !ValidFileID(e.FileID) {
		return api.ImageRecord{}, fmt.Errorf("%w: %q", ErrInvalidFileID, e.FileID)
	}
	rec, err := e.backend.UpdateImage(ctx, e.FileID, api.ImageUpdate{
		Title:          e.Title,
		Interpretation: e.Interpretation,
	})
	if err != nil {
		return api.ImageRecord{}, fmt.Errorf("gallery: save %s: %w", e.FileID, err)
	}
	return rec, nil
}

package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/gallerydesk/api"
	"github.com/eringen/gallerydesk/blobstore"
)

// DefaultFetchLimit bounds concurrent binary fetches when Fetcher.Limit is unset.
const DefaultFetchLimit = 4

// BinarySource downloads image content by file identifier.
type BinarySource interface {
	ImageBinary(ctx context.Context, fileID string) (api.Binary, error)
}

// Resources mints and revokes handles for fetched content.
type Resources interface {
	Put(ctx context.Context, blob blobstore.Blob) (blobstore.Handle, error)
	Revoke(ctx context.Context, h blobstore.Handle) error
}

// Transform turns downloaded content into the blob shown in list views,
// typically a thumbnail.
type Transform func(api.Binary) (blobstore.Blob, error)

// Fetcher downloads binaries and turns them into handles.
type Fetcher struct {
	Source    BinarySource
	Resources Resources
	Limit     int
	Transform Transform
}

// Fetch downloads one binary at full size and returns its handle.
func (f *Fetcher) Fetch(ctx context.Context, fileID string) (blobstore.Handle, error) {
	if !ValidFileID(fileID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileID, fileID)
	}
	bin, err := f.Source.ImageBinary(ctx, fileID)
	if err != nil {
		return "", err
	}
	return f.Resources.Put(ctx, blobstore.Blob{Data: bin.Data, ContentType: bin.ContentType})
}

// FetchAll downloads the binaries of fileIDs with at most Limit requests in
// flight and returns the handles that were minted, keyed by file id.
// Failures are logged and leave the id out of the result. Cancelling ctx
// stops scheduling and aborts requests in flight.
func (f *Fetcher) FetchAll(ctx context.Context, fileIDs []string) map[string]blobstore.Handle {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	var (
		mu      sync.Mutex
		handles = make(map[string]blobstore.Handle, len(fileIDs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range fileIDs {
		if !ValidFileID(id) {
			slog.Warn("gallery: skipping image without file id", "file_id", id)
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			h, err := f.fetchThumbnail(gctx, id)
			if err != nil {
				slog.Warn("gallery: binary fetch failed", "file_id", id, "error", err)
				return nil
			}
			mu.Lock()
			handles[id] = h
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return handles
}

func (f *Fetcher) fetchThumbnail(ctx context.Context, fileID string) (blobstore.Handle, error) {
	bin, err := f.Source.ImageBinary(ctx, fileID)
	if err != nil {
		return "", err
	}
	blob := blobstore.Blob{Data: bin.Data, ContentType: bin.ContentType}
	if f.Transform != nil {
		if blob, err = f.Transform(bin); err != nil {
			return "", fmt.Errorf("transform %s: %w", fileID, err)
		}
	}
	return f.Resources.Put(ctx, blob)
}

// revoke releases a handle, logging instead of failing the caller.
func (f *Fetcher) revoke(ctx context.Context, h blobstore.Handle) {
	if h == "" {
		return
	}
	if err := f.Resources.Revoke(ctx, h); err != nil {
		slog.Warn("gallery: revoke handle failed", "handle", h, "error", err)
	}
}

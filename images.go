package gallerydesk

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/eringen/gallerydesk/api"
	"github.com/eringen/gallerydesk/blobstore"
	"github.com/eringen/gallerydesk/gallery"
)

const jpegQuality = 80

// thumbnailer returns the grid transform: images wider than width are
// scaled down and re-encoded as JPEG. Content that is already small enough,
// or that cannot be decoded, is kept as delivered.
func thumbnailer(width int) gallery.Transform {
	return func(bin api.Binary) (blobstore.Blob, error) {
		original := blobstore.Blob{Data: bin.Data, ContentType: bin.ContentType}
		if width <= 0 {
			return original, nil
		}
		data, ok, err := scaleImage(bin.Data, width)
		if err != nil {
			return blobstore.Blob{}, err
		}
		if !ok {
			return original, nil
		}
		return blobstore.Blob{Data: data, ContentType: "image/jpeg"}, nil
	}
}

// scaleImage reports ok=false when src is not wider than maxWidth or is not
// a format it can decode.
func scaleImage(src []byte, maxWidth int) ([]byte, bool, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, false, nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth {
		return nil, false, nil
	}

	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), true, nil
}

// Package asset turns encoded image bytes into canvas images the PDF
// backend can embed.
//
// PNG, JPEG and GIF pass through after a header check. WebP, BMP and TIFF
// are decoded with golang.org/x/image and re-encoded as PNG.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lvillar/billpdf/canvas"
)

// ErrEmpty is returned for a zero-length asset.
var ErrEmpty = errors.New("asset: empty data")

// UnsupportedError reports a payload whose detected type is not an image
// format this package can embed.
type UnsupportedError struct {
	MIME string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("asset: unsupported type %s", e.MIME)
}

// passthrough maps MIME types gofpdf embeds natively to its image type names.
var passthrough = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/gif":  "GIF",
}

var converted = map[string]bool{
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// Decode validates data and returns it as an embeddable image registered
// under name.
func Decode(name string, data []byte) (canvas.Image, error) {
	if len(data) == 0 {
		return canvas.Image{}, ErrEmpty
	}
	mime := mimetype.Detect(data)

	for m := mime; m != nil; m = m.Parent() {
		if typ, ok := passthrough[m.String()]; ok {
			if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
				return canvas.Image{}, fmt.Errorf("asset: %s header: %w", m.String(), err)
			}
			return canvas.Image{Name: name, Type: typ, Data: data}, nil
		}
		if converted[m.String()] {
			return toPNG(name, data)
		}
	}
	return canvas.Image{}, &UnsupportedError{MIME: mime.String()}
}

func toPNG(name string, data []byte) (canvas.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return canvas.Image{}, fmt.Errorf("asset: decoding: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return canvas.Image{}, fmt.Errorf("asset: re-encoding %s: %w", format, err)
	}
	return canvas.Image{Name: name, Type: "PNG", Data: buf.Bytes()}, nil
}

// IsPDF reports whether data looks like a PDF document.
func IsPDF(data []byte) bool {
	return len(data) > 0 && mimetype.Detect(data).Is("application/pdf")
}

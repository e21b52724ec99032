package imagepkg

import (
	"image"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	b, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr code")
	}
	return b, nil
}

// GenerateQRImage returns a QR code as an image for use as mockup artwork.
// Its white background is keyed out like any other user image.
func GenerateQRImage(text string, size int) (image.Image, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr code")
	}
	return q.Image(size), nil
}

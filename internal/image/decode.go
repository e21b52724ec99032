package imagepkg

import (
	"bytes"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// DecodeImage decodes an uploaded image, applying EXIF orientation.
// Any failure is returned as a *DecodeError.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return img, nil
}

// DecodeBytes is DecodeImage over an in-memory buffer.
func DecodeBytes(b []byte) (image.Image, error) {
	return DecodeImage(bytes.NewReader(b))
}

// OpenBase reads and decodes the product photo at path into NRGBA form.
func OpenBase(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open base image")
	}
	defer f.Close()
	img, err := imaging.Decode(f)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return imaging.Clone(img), nil
}

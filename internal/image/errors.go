package imagepkg

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDecode is matched by every *DecodeError.
	ErrDecode = errors.New("image decode failed")
	// ErrGeometry is matched by every *GeometryError.
	ErrGeometry = errors.New("invalid geometry")
)

// DecodeError reports input bytes that are not a decodable image.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("decode image: %v", e.Err)
	}
	return fmt.Sprintf("decode image from %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// GeometryError reports a print area or caption layout that cannot be
// placed on the images involved.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string { return "invalid geometry: " + e.Reason }

func (e *GeometryError) Is(target error) bool { return target == ErrGeometry }

func geometryErrorf(format string, args ...interface{}) error {
	return &GeometryError{Reason: fmt.Sprintf(format, args...)}
}

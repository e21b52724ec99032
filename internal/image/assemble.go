package imagepkg

import (
	"bytes"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// DefaultPrintArea is the printable rectangle of the stock mug photo.
var DefaultPrintArea = image.Rect(480, 300, 480+350, 300+350)

// AssembleOptions tunes the resize and encode steps of Assemble.
type AssembleOptions struct {
	Filter      imaging.ResampleFilter
	Compression png.CompressionLevel
	// StrictBounds rejects print areas that are not fully inside the base
	// image. Otherwise the part of the artwork falling outside is clipped.
	StrictBounds bool
}

// DefaultAssembleOptions resamples with Lanczos and encodes with the
// default PNG compression.
func DefaultAssembleOptions() AssembleOptions {
	return AssembleOptions{Filter: imaging.Lanczos, Compression: png.DefaultCompression}
}

// ValidatePrintArea reports a *GeometryError if area has no size or does not
// overlap base at all. With strict set, area must lie fully inside base.
func ValidatePrintArea(base image.Rectangle, area image.Rectangle, strict bool) error {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return geometryErrorf("print area %v has no size", area)
	}
	if !area.Overlaps(base) {
		return geometryErrorf("print area %v lies outside base image bounds %v", area, base)
	}
	if strict && !area.In(base) {
		return geometryErrorf("print area %v exceeds base image bounds %v", area, base)
	}
	return nil
}

// Assemble stretches processed to exactly the size of area, pastes it onto
// base at area's origin using its alpha as the blend mask, and returns the
// composite encoded as PNG. The output has base's dimensions; base itself is
// left untouched.
func Assemble(base, processed image.Image, area image.Rectangle, opts AssembleOptions) (*bytes.Buffer, error) {
	composite, err := Composite(base, processed, area, opts)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	err = imaging.Encode(buf, composite, imaging.PNG, imaging.PNGCompressionLevel(opts.Compression))
	if err != nil {
		return nil, errors.Wrap(err, "encode mockup png")
	}
	return buf, nil
}

// Composite is Assemble without the encode step.
func Composite(base, processed image.Image, area image.Rectangle, opts AssembleOptions) (*image.NRGBA, error) {
	// Print areas are given in base image coordinates starting at (0,0).
	bounds := base.Bounds().Sub(base.Bounds().Min)
	if err := ValidatePrintArea(bounds, area, opts.StrictBounds); err != nil {
		return nil, err
	}
	if processed.Bounds().Empty() {
		return nil, geometryErrorf("user image is empty")
	}
	resized := imaging.Resize(processed, area.Dx(), area.Dy(), opts.Filter)
	return imaging.Overlay(base, resized, area.Min.Add(base.Bounds().Min), 1.0), nil
}

// ParseFilter maps a filter name to an imaging resample filter.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lanczos":
		return imaging.Lanczos, nil
	case "nearest", "nearestneighbor":
		return imaging.NearestNeighbor, nil
	case "box":
		return imaging.Box, nil
	case "linear", "bilinear":
		return imaging.Linear, nil
	case "catmullrom", "bicubic":
		return imaging.CatmullRom, nil
	case "mitchell":
		return imaging.MitchellNetravali, nil
	}
	return imaging.ResampleFilter{}, errors.Errorf("unknown resample filter %q", name)
}

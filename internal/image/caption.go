package imagepkg

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultFontSize      = 60
	DefaultCaptionPad    = 60
	DefaultCaptionMargin = 50
)

// CaptionOptions controls caption layout below an image.
type CaptionOptions struct {
	FontSize int
	// Padding is the gap between the bottom of the image and the top of the text.
	Padding int
	// Margin is extra space added below the text.
	Margin int
}

// DefaultCaptionOptions returns the layout used by the mockup service.
func DefaultCaptionOptions() CaptionOptions {
	return CaptionOptions{
		FontSize: DefaultFontSize,
		Padding:  DefaultCaptionPad,
		Margin:   DefaultCaptionMargin,
	}
}

// MeasureText returns the pixel width and height of the ink bounding box of
// text drawn with face, along with the box itself relative to a dot at the
// origin. An empty string measures 0x0.
func MeasureText(face font.Face, text string) (int, int, fixed.Rectangle26_6) {
	bounds, _ := font.BoundString(face, text)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h, bounds
}

// OverlayCaption returns a new transparent canvas as wide as img and taller
// by Padding + text height + Margin, with img drawn at the top and text
// centered below it in opaque black. img is not modified.
func OverlayCaption(img image.Image, text string, f *ResolvedFont, opts CaptionOptions) (*image.NRGBA, error) {
	if opts.FontSize <= 0 {
		return nil, geometryErrorf("font size %d must be positive", opts.FontSize)
	}
	if opts.Padding < 0 || opts.Margin < 0 {
		return nil, geometryErrorf("caption padding %d and margin %d must not be negative", opts.Padding, opts.Margin)
	}

	face := f.Face(float64(opts.FontSize))
	defer face.Close()

	src := img.Bounds()
	width, height := src.Dx(), src.Dy()
	textW, textH, bounds := MeasureText(face, text)

	canvas := image.NewNRGBA(image.Rect(0, 0, width, height+opts.Padding+textH+opts.Margin))
	draw.Draw(canvas, image.Rect(0, 0, width, height), img, src.Min, draw.Over)

	if text == "" {
		return canvas, nil
	}
	textX := (width - textW) / 2
	textY := height + opts.Padding
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.Black,
		Face: face,
		// Shift the dot so the ink box starts at (textX, textY).
		Dot: fixed.Point26_6{
			X: fixed.I(textX) - bounds.Min.X,
			Y: fixed.I(textY) - bounds.Min.Y,
		},
	}
	d.DrawString(text)
	return canvas, nil
}

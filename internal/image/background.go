package imagepkg

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultWhiteThreshold is the channel value a pixel must exceed on red,
// green and blue to be treated as background.
const DefaultWhiteThreshold uint8 = 240

// RemoveBackground returns a copy of img in NRGBA form where every pixel whose
// red, green and blue channels are all strictly greater than threshold has
// its alpha set to 0. Other pixels keep their alpha. img is not modified.
func RemoveBackground(img image.Image, threshold uint8) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			if row[i] > threshold && row[i+1] > threshold && row[i+2] > threshold {
				row[i+3] = 0
			}
		}
	}
	return out
}

package imagepkg

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// DefaultFontPath is where the caption font is looked up when no other path
// is configured.
const DefaultFontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"

// FontSource tells where a ResolvedFont came from.
type FontSource int

const (
	FontSourceFile FontSource = iota
	FontSourceDefault
)

func (s FontSource) String() string {
	switch s {
	case FontSourceFile:
		return "file"
	case FontSourceDefault:
		return "default"
	}
	return "unknown"
}

// ResolvedFont is a parsed font ready to produce faces at any size.
// It is read-only and can be shared between goroutines.
type ResolvedFont struct {
	Path   string
	Source FontSource
	// Err holds the load failure that caused a fallback to the default font.
	Err error

	otf *opentype.Font
}

var defaultFont *opentype.Font

func init() {
	f, err := opentype.Parse(gobold.TTF)
	if err == nil {
		defaultFont = f
	}
}

// ResolveFont loads the font at path. If that fails for any reason the
// built-in Go Bold font is returned instead, with Source set to
// FontSourceDefault and Err describing why the file was not used.
func ResolveFont(path string) *ResolvedFont {
	f, err := loadFontFile(path)
	if err == nil {
		return &ResolvedFont{Path: path, Source: FontSourceFile, otf: f}
	}
	return &ResolvedFont{Path: path, Source: FontSourceDefault, Err: err, otf: defaultFont}
}

func loadFontFile(path string) (*opentype.Font, error) {
	if path == "" {
		return nil, errors.New("no font path configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read font")
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse font %s", path)
	}
	return f, nil
}

// Face returns a new face at size pixels. Faces are not safe for concurrent
// use, so callers create one per rendering.
func (f *ResolvedFont) Face(size float64) font.Face {
	if f == nil || f.otf == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

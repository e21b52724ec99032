package imagepkg

import (
	"bytes"
	"context"
	"image"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultBaseImagePath is the stock mug photo shipped with the service.
const DefaultBaseImagePath = "assets/mug_base.png"

// Config holds every tunable of the mockup pipeline.
type Config struct {
	BaseImagePath string
	PrintArea     image.Rectangle
	FontPath      string
	Threshold     uint8
	Caption       CaptionOptions
	Assemble      AssembleOptions
	// BaseCacheSize bounds the number of decoded base images a Generator keeps.
	BaseCacheSize int
}

// DefaultConfig returns the settings of the stock mug mockup.
func DefaultConfig() Config {
	return Config{
		BaseImagePath: DefaultBaseImagePath,
		PrintArea:     DefaultPrintArea,
		FontPath:      DefaultFontPath,
		Threshold:     DefaultWhiteThreshold,
		Caption:       DefaultCaptionOptions(),
		Assemble:      DefaultAssembleOptions(),
		BaseCacheSize: 4,
	}
}

// MockupRequest is the input of a single pipeline run.
type MockupRequest struct {
	// BasePath overrides Config.BaseImagePath when set.
	BasePath string
	Image    image.Image
	Caption  string
}

// ProcessUserImage removes the white background from img and adds caption
// below it.
func ProcessUserImage(img image.Image, caption string, f *ResolvedFont, cfg Config) (*image.NRGBA, error) {
	keyed := RemoveBackground(img, cfg.Threshold)
	return OverlayCaption(keyed, caption, f, cfg.Caption)
}

// GenerateMockup runs the whole pipeline without any caching: the base image
// at basePath is decoded and the font is resolved on every call.
func GenerateMockup(basePath string, user image.Image, caption string, cfg Config) (*bytes.Buffer, error) {
	if user == nil {
		return nil, errors.New("no user image")
	}
	base, err := OpenBase(basePath)
	if err != nil {
		return nil, err
	}
	processed, err := ProcessUserImage(user, caption, ResolveFont(cfg.FontPath), cfg)
	if err != nil {
		return nil, err
	}
	return Assemble(base, processed, cfg.PrintArea, cfg.Assemble)
}

// Generator runs the pipeline with a fixed Config, keeping decoded base
// images and the resolved font for the Generator's lifetime. Build a new
// Generator to pick up a changed Config. Safe for concurrent use.
type Generator struct {
	cfg   Config
	log   logrus.FieldLogger
	bases *lru.Cache[string, *image.NRGBA]

	fontOnce sync.Once
	font     *ResolvedFont

	// OnFontFallback, if set, is called once when the configured font could
	// not be loaded and the default font is used instead.
	OnFontFallback func(f *ResolvedFont)
}

// NewGenerator validates cfg and returns a Generator for it.
func NewGenerator(cfg Config, log logrus.FieldLogger) (*Generator, error) {
	if cfg.PrintArea.Dx() <= 0 || cfg.PrintArea.Dy() <= 0 {
		return nil, geometryErrorf("print area %v has no size", cfg.PrintArea)
	}
	if cfg.BaseCacheSize <= 0 {
		cfg.BaseCacheSize = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	bases, err := lru.New[string, *image.NRGBA](cfg.BaseCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create base image cache")
	}
	return &Generator{cfg: cfg, log: log, bases: bases}, nil
}

// Config returns the configuration g was built with.
func (g *Generator) Config() Config { return g.cfg }

// Font returns the resolved caption font, loading it on first use.
func (g *Generator) Font() *ResolvedFont {
	g.fontOnce.Do(func() {
		g.font = ResolveFont(g.cfg.FontPath)
		if g.font.Source == FontSourceDefault {
			g.log.WithError(g.font.Err).WithField("font_path", g.cfg.FontPath).
				Warn("caption font unavailable, using built-in default")
			if g.OnFontFallback != nil {
				g.OnFontFallback(g.font)
			}
		}
	})
	return g.font
}

// Base returns the decoded base image at path, from cache when possible.
// The returned image is shared and must not be modified.
func (g *Generator) Base(path string) (*image.NRGBA, error) {
	if img, ok := g.bases.Get(path); ok {
		return img, nil
	}
	img, err := OpenBase(path)
	if err != nil {
		return nil, err
	}
	g.bases.Add(path, img)
	g.log.WithField("path", path).Debug("base image cached")
	return img, nil
}

// Generate produces the PNG mockup for req. ctx is only consulted before the
// pipeline starts; once running it completes.
func (g *Generator) Generate(ctx context.Context, req MockupRequest) (*bytes.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Image == nil {
		return nil, errors.New("no user image")
	}
	path := req.BasePath
	if path == "" {
		path = g.cfg.BaseImagePath
	}
	base, err := g.Base(path)
	if err != nil {
		return nil, err
	}
	processed, err := ProcessUserImage(req.Image, req.Caption, g.Font(), g.cfg)
	if err != nil {
		return nil, err
	}
	return Assemble(base, processed, g.cfg.PrintArea, g.cfg.Assemble)
}

package imagepkg

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestGenerateMockupWhiteArtwork(t *testing.T) {
	base := gradientBase(800, 600)
	basePath := writePNG(t, base)
	cfg := DefaultConfig()
	cfg.FontPath = ""

	user := fillNRGBA(100, 100, color.NRGBA{255, 255, 255, 255})
	buf, err := GenerateMockup(basePath, user, "Hello", cfg)
	require.NoError(t, err)

	out, err := png.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 800, 600), out.Bounds())

	area := DefaultPrintArea
	changed := 0
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			got := nrgbaAt(out, x, y)
			want := base.NRGBAAt(x, y)
			if !image.Pt(x, y).In(area) {
				require.Equal(t, want, got, "pixel %d,%d outside the print area", x, y)
				continue
			}
			if got != want {
				changed++
			}
		}
	}
	assert.Greater(t, changed, 0, "caption ink should show inside the print area")

	// The keyed-out artwork occupies the top of the print area, so nothing
	// but base shows there.
	assert.Equal(t, base.NRGBAAt(500, 320), nrgbaAt(out, 500, 320))
}

func TestGenerateMockupDecodeErrors(t *testing.T) {
	cfg := DefaultConfig()
	user := fillNRGBA(10, 10, color.NRGBA{1, 1, 1, 255})

	_, err := GenerateMockup(filepath.Join(t.TempDir(), "missing.png"), user, "x", cfg)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecode)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not a png"), 0o644))
	_, err = GenerateMockup(bad, user, "x", cfg)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, bad, de.Source)

	_, err = GenerateMockup(bad, nil, "x", cfg)
	assert.Error(t, err)
}

func TestGeneratorCachesBaseAndFont(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseImagePath = writePNG(t, gradientBase(900, 700))
	cfg.FontPath = filepath.Join(t.TempDir(), "missing.ttf")

	gen, err := NewGenerator(cfg, quietLogger())
	require.NoError(t, err)
	fallbacks := 0
	gen.OnFontFallback = func(f *ResolvedFont) { fallbacks++ }

	b1, err := gen.Base(cfg.BaseImagePath)
	require.NoError(t, err)
	b2, err := gen.Base(cfg.BaseImagePath)
	require.NoError(t, err)
	assert.Same(t, b1, b2)

	f1 := gen.Font()
	f2 := gen.Font()
	assert.Same(t, f1, f2)
	assert.Equal(t, FontSourceDefault, f1.Source)
	assert.Equal(t, 1, fallbacks)

	user := fillNRGBA(64, 48, color.NRGBA{30, 60, 90, 255})
	for i := 0; i < 2; i++ {
		buf, err := gen.Generate(context.Background(), MockupRequest{Image: user, Caption: "Cached"})
		require.NoError(t, err)
		c, err := png.DecodeConfig(buf)
		require.NoError(t, err)
		assert.Equal(t, 900, c.Width)
		assert.Equal(t, 700, c.Height)
	}
	assert.Equal(t, 1, fallbacks)
}

func TestGeneratorBasePathOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseImagePath = filepath.Join(t.TempDir(), "missing.png")
	cfg.PrintArea = image.Rect(0, 0, 10, 10)
	cfg.BaseCacheSize = 0
	gen, err := NewGenerator(cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, cfg.BaseImagePath, gen.Config().BaseImagePath)
	assert.Equal(t, image.Rect(0, 0, 10, 10), gen.Config().PrintArea)
	assert.Equal(t, 1, gen.Config().BaseCacheSize, "cache size is clamped to at least one entry")

	user := fillNRGBA(5, 5, color.NRGBA{30, 60, 90, 255})
	_, err = gen.Generate(context.Background(), MockupRequest{Image: user})
	assert.Error(t, err)

	other := writePNG(t, gradientBase(40, 30))
	buf, err := gen.Generate(context.Background(), MockupRequest{BasePath: other, Image: user})
	require.NoError(t, err)
	c, err := png.DecodeConfig(buf)
	require.NoError(t, err)
	assert.Equal(t, 40, c.Width)
	assert.Equal(t, 30, c.Height)
}

func TestGeneratorChecksContextAndInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseImagePath = writePNG(t, gradientBase(900, 700))
	gen, err := NewGenerator(cfg, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.Generate(ctx, MockupRequest{Image: fillNRGBA(2, 2, color.NRGBA{A: 255})})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = gen.Generate(context.Background(), MockupRequest{})
	assert.Error(t, err)
}

func TestNewGeneratorRejectsEmptyPrintArea(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PrintArea = image.Rect(10, 10, 10, 40)
	_, err := NewGenerator(cfg, nil)
	assert.ErrorIs(t, err, ErrGeometry)
}

func TestGeneratorConcurrentUse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseImagePath = writePNG(t, gradientBase(900, 700))
	cfg.FontPath = ""
	gen, err := NewGenerator(cfg, quietLogger())
	require.NoError(t, err)

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func(i int) {
			user := fillNRGBA(20+i, 30, color.NRGBA{uint8(i * 20), 0, 0, 255})
			_, err := gen.Generate(context.Background(), MockupRequest{Image: user, Caption: "Mug"})
			errs <- err
		}(i)
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-errs)
	}
}

package config

import (
	"image"
	"image/png"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	imagepkg "github.com/youruser/mugmockup/internal/image"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port    string `env:"PORT,default=8080"`
	GinMode string `env:"GIN_MODE,default=release"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	BaseImagePath  string `env:"BASE_IMAGE_PATH,default=assets/mug_base.png"`
	FontPath       string `env:"FONT_PATH,default=/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"`
	FontSize       int    `env:"FONT_SIZE,default=60"`
	CaptionPadding int    `env:"CAPTION_PADDING,default=60"`
	CaptionMargin  int    `env:"CAPTION_MARGIN,default=50"`
	WhiteThreshold uint8  `env:"WHITE_THRESHOLD,default=240"`

	PrintAreaX int `env:"PRINT_AREA_X,default=480"`
	PrintAreaY int `env:"PRINT_AREA_Y,default=300"`
	PrintAreaW int `env:"PRINT_AREA_W,default=350"`
	PrintAreaH int `env:"PRINT_AREA_H,default=350"`

	ResampleFilter string `env:"RESAMPLE_FILTER,default=lanczos"`
	StrictBounds   bool   `env:"PRINT_AREA_STRICT,default=false"`
	BaseCacheSize  int    `env:"BASE_CACHE_SIZE,default=4"`

	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT,default=10s"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES,default=10485760"`
	QRSize          int           `env:"QR_SIZE,default=400"`
}

// Load reads an optional .env file, then decodes the environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	// Strict decoding surfaces malformed values instead of zeroing the field.
	if err := envdecode.StrictDecode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, errors.Wrap(err, "decode environment")
	}
	if _, err := cfg.Mockup(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Mockup converts c into the pipeline configuration.
func (c *Config) Mockup() (imagepkg.Config, error) {
	filter, err := imagepkg.ParseFilter(c.ResampleFilter)
	if err != nil {
		return imagepkg.Config{}, err
	}
	if c.PrintAreaW <= 0 || c.PrintAreaH <= 0 {
		return imagepkg.Config{}, errors.Errorf("print area size %dx%d must be positive", c.PrintAreaW, c.PrintAreaH)
	}
	if c.FontSize <= 0 {
		return imagepkg.Config{}, errors.Errorf("font size %d must be positive", c.FontSize)
	}
	if c.CaptionPadding < 0 || c.CaptionMargin < 0 {
		return imagepkg.Config{}, errors.Errorf("caption padding %d and margin %d must not be negative", c.CaptionPadding, c.CaptionMargin)
	}
	return imagepkg.Config{
		BaseImagePath: c.BaseImagePath,
		PrintArea:     image.Rect(c.PrintAreaX, c.PrintAreaY, c.PrintAreaX+c.PrintAreaW, c.PrintAreaY+c.PrintAreaH),
		FontPath:      c.FontPath,
		Threshold:     c.WhiteThreshold,
		Caption: imagepkg.CaptionOptions{
			FontSize: c.FontSize,
			Padding:  c.CaptionPadding,
			Margin:   c.CaptionMargin,
		},
		Assemble: imagepkg.AssembleOptions{
			Filter:       filter,
			Compression:  png.DefaultCompression,
			StrictBounds: c.StrictBounds,
		},
		BaseCacheSize: c.BaseCacheSize,
	}, nil
}

// NewLogger builds the process logger from the logging settings.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

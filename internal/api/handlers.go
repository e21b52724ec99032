package api

import (
	"image"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	imagepkg "github.com/youruser/mugmockup/internal/image"
	"github.com/youruser/mugmockup/internal/metrics"
	"github.com/youruser/mugmockup/internal/util"
)

const defaultQRSize = 400

// Server holds what the handlers share.
type Server struct {
	gen     *imagepkg.Generator
	metrics *metrics.Metrics
	log     logrus.FieldLogger

	// DownloadTimeout bounds fetching artwork for /api/mockupurl.
	DownloadTimeout time.Duration
	// MaxUploadBytes caps the multipart body for /api/mockup.
	MaxUploadBytes int64
	// QRSize is the pixel size of QR artwork.
	QRSize int
}

// NewServer wires a Server. m may be nil to disable metrics.
func NewServer(gen *imagepkg.Generator, m *metrics.Metrics, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if m != nil {
		gen.OnFontFallback = func(*imagepkg.ResolvedFont) { m.FontFallbacks.Inc() }
	}
	return &Server{
		gen:             gen,
		metrics:         m,
		log:             log,
		DownloadTimeout: util.DefaultTimeout,
		MaxUploadBytes:  10 << 20,
		QRSize:          defaultQRSize,
	}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// qr endpoint returns a PNG of a QR for "text" query param
func (s *Server) qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := s.QRSize
	if sizeStr := c.Query("size"); sizeStr != "" {
		v, err := strconv.Atoi(sizeStr)
		if err != nil || v <= 0 || v > 4096 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 1 and 4096"})
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// mockup from a multipart upload: "image" file and "text" caption
func (s *Server) mockupUploadHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxUploadBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		s.fail(c, "upload", badRequest(errors.Wrap(err, "image file is required")))
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.fail(c, "upload", badRequest(err))
		return
	}
	defer f.Close()
	img, err := imagepkg.DecodeImage(f)
	if err != nil {
		s.fail(c, "upload", err)
		return
	}
	s.render(c, "upload", img, c.PostForm("text"))
}

// mockup from a remote image: "image_url" and "text" form fields
func (s *Server) mockupURLHandler(c *gin.Context) {
	url := c.PostForm("image_url")
	if url == "" {
		s.fail(c, "url", badRequest(errors.New("image_url is required")))
		return
	}
	img, err := imagepkg.DownloadImage(c.Request.Context(), url, s.DownloadTimeout)
	if err != nil {
		// The remote side is the client's input, so any failure here is a 400.
		s.fail(c, "url", badRequest(err))
		return
	}
	s.render(c, "url", img, c.PostForm("text"))
}

// mockup with a QR code of "qr_text" as the artwork
func (s *Server) mockupQRHandler(c *gin.Context) {
	qrText := c.PostForm("qr_text")
	if qrText == "" {
		s.fail(c, "qr", badRequest(errors.New("qr_text is required")))
		return
	}
	img, err := imagepkg.GenerateQRImage(qrText, s.QRSize)
	if err != nil {
		s.fail(c, "qr", badRequest(err))
		return
	}
	s.render(c, "qr", img, c.PostForm("text"))
}

func (s *Server) render(c *gin.Context, source string, img image.Image, caption string) {
	start := time.Now()
	buf, err := s.gen.Generate(c.Request.Context(), imagepkg.MockupRequest{Image: img, Caption: caption})
	if err != nil {
		s.fail(c, source, err)
		return
	}
	if s.metrics != nil {
		s.metrics.GenerateDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

type badRequestError struct{ error }

func (e badRequestError) Unwrap() error { return e.error }

func badRequest(err error) error { return badRequestError{err} }

func (s *Server) fail(c *gin.Context, source string, err error) {
	status, kind := classify(err)
	if s.metrics != nil {
		s.metrics.GenerateErrors.WithLabelValues(kind).Inc()
	}
	loggerFrom(c).WithError(err).WithFields(logrus.Fields{
		"source": source,
		"kind":   kind,
	}).Warn("mockup request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}

func classify(err error) (int, string) {
	var br badRequestError
	switch {
	case errors.Is(err, imagepkg.ErrDecode):
		return http.StatusBadRequest, "decode"
	case errors.Is(err, imagepkg.ErrGeometry):
		// Geometry comes from server configuration, never from the request.
		return http.StatusInternalServerError, "geometry"
	case errors.As(err, &br):
		return http.StatusBadRequest, "input"
	}
	return http.StatusInternalServerError, "internal"
}

package imagepkg

import (
	"context"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youruser/mugmockup/internal/util"
)

func TestDownloadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Mimic hosts that turn away anonymous clients.
		if !strings.Contains(r.Header.Get("User-Agent"), "Mozilla/5.0") || !strings.Contains(r.Header.Get("From"), "@") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_ = png.Encode(w, fillNRGBA(12, 8, color.NRGBA{1, 2, 3, 255}))
		case "/text":
			_, _ = w.Write([]byte("hello"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	img, err := DownloadImage(context.Background(), srv.URL+"/ok.png", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	_, err = DownloadImage(context.Background(), srv.URL+"/text", time.Second)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, srv.URL+"/text", de.Source)

	_, err = DownloadImage(context.Background(), srv.URL+"/missing", time.Second)
	var se *util.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.NotErrorIs(t, err, ErrDecode)
}

func TestDecodeImage(t *testing.T) {
	_, err := DecodeBytes([]byte{0x89, 'P', 'N', 'G'})
	assert.ErrorIs(t, err, ErrDecode)
}

package imagepkg

import (
	"context"
	"image"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/youruser/mugmockup/internal/util"
)

// Some image hosts refuse requests without a browser-like identity and a
// contact address.
var downloadHeader = http.Header{
	"User-Agent": {"Mozilla/5.0 (compatible; mugmockup/1.0)"},
	"From":       {"mockups@mugmockup.example"},
	"Accept":     {"image/*"},
}

// DownloadImage fetches url and decodes the body. Transport failures are
// wrapped errors; undecodable bodies are *DecodeError.
func DownloadImage(ctx context.Context, url string, timeout time.Duration) (image.Image, error) {
	body, err := util.GetBytes(ctx, url, downloadHeader, timeout)
	if err != nil {
		return nil, errors.Wrap(err, "download image")
	}
	img, err := DecodeBytes(body)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Source = url
		}
		return nil, err
	}
	return img, nil
}

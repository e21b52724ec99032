package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/youruser/mugmockup/internal/api"
	"github.com/youruser/mugmockup/internal/config"
	imagepkg "github.com/youruser/mugmockup/internal/image"
	"github.com/youruser/mugmockup/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := cfg.NewLogger()

	mcfg, err := cfg.Mockup()
	if err != nil {
		log.WithError(err).Fatal("mockup config")
	}
	gen, err := imagepkg.NewGenerator(mcfg, log)
	if err != nil {
		log.WithError(err).Fatal("create generator")
	}

	// Warm the caches (best-effort); a bad base image shows up per request too.
	if _, err := gen.Base(mcfg.BaseImagePath); err != nil {
		log.WithError(err).WithField("path", mcfg.BaseImagePath).Warn("failed to load base image at startup")
	}

	srv := api.NewServer(gen, metrics.New(), log)
	srv.DownloadTimeout = cfg.DownloadTimeout
	srv.MaxUploadBytes = cfg.MaxUploadBytes
	srv.QRSize = cfg.QRSize
	// Resolve the caption font now so a fallback is reported at startup.
	gen.Font()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	api.RegisterRoutes(r, srv)

	active := gen.Config()
	log.WithFields(logrus.Fields{
		"port":       cfg.Port,
		"base_image": active.BaseImagePath,
		"print_area": active.PrintArea.String(),
		"threshold":  active.Threshold,
		"font":       gen.Font().Source.String(),
	}).Info("starting server on http://localhost:" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server stopped")
	}
}

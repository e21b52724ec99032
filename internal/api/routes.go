package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, s *Server) {
	r.Use(requestID(), requestLogger(s.log), cors())
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/qr", s.qrHandler)
		api.POST("/mockup", s.mockupUploadHandler)
		api.POST("/mockupurl", s.mockupURLHandler)
		api.POST("/mockup/qr", s.mockupQRHandler)
	}
}

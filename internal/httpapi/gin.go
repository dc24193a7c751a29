package httpapi

import "github.com/gin-gonic/gin"

// RegisterGin mounts the robots endpoints on an existing gin router, for
// deployments where gin owns the listener. Requests go through the same
// mux and observability middleware as NewHandlerWithOptions.
func RegisterGin(r gin.IRoutes, opt Options) {
	h := gin.WrapH(NewHandlerWithOptions(opt))
	r.GET("/robots.txt", h)
	r.HEAD("/robots.txt", h)
	r.GET("/healthz", h)
	r.GET("/metrics", h)
	r.POST("/api/preview", h)
}

// NewGinEngine returns a bare gin engine (recovery only) serving the robots
// endpoints.
func NewGinEngine(opt Options) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	RegisterGin(engine, opt)
	return engine
}

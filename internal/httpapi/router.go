package httpapi

import "net/http"

func NewMux() *http.ServeMux {
	return NewMuxWithOptions(Options{})
}

func NewMuxWithOptions(opt Options) *http.ServeMux {
	opt = opt.withDefaults()
	h := robotsHandler{opt: opt}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /robots.txt", h.handleRobots)
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /metrics", handleMetrics)
	mux.HandleFunc("POST /api/preview", h.handlePreview)
	return mux
}

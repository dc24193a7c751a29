package httpapi

import (
	"net"
	"net/http"
	"strings"

	"github.com/John-Robertt/robotstxt-go/internal/ctxlog"
	"github.com/John-Robertt/robotstxt-go/internal/model"
	"github.com/John-Robertt/robotstxt-go/internal/render"
	"github.com/John-Robertt/robotstxt-go/internal/resolve"
)

type robotsHandler struct {
	opt Options
}

func (h robotsHandler) handleRobots(w http.ResponseWriter, r *http.Request) {
	cfg := h.opt.Config
	req := requestContext(r)
	res := resolve.Explain(cfg, req)
	body := render.Render(res.RuleSet, cfg, serverContext(r, h.opt.PublicBaseURL))

	metricsIncDocument(string(res.Source))
	if cfg.Verbose {
		ctxlog.FromContext(r.Context()).Info("robots.txt served",
			"user_agent", req.UserAgent,
			"host", req.Host,
			"resolved_host", res.Host,
			"env", res.Env,
			"source", string(res.Source),
			"body", body,
		)
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	WriteText(w, http.StatusOK, body)
}

func requestContext(r *http.Request) model.RequestContext {
	return model.RequestContext{
		Host:      requestHost(r.Host),
		UserAgent: r.UserAgent(),
	}
}

// requestHost strips the port from a Host header value. No case folding:
// host keys are matched exactly.
func requestHost(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return hostport
}

// serverContext derives the base URI used for relative sitemap paths.
// A configured public base URL always wins over request data.
func serverContext(r *http.Request, publicBaseURL string) model.ServerContext {
	if publicBaseURL != "" {
		scheme := "http"
		if strings.HasPrefix(strings.ToLower(publicBaseURL), "https://") {
			scheme = "https"
		}
		return model.ServerContext{BaseURI: publicBaseURL, Scheme: scheme}
	}
	return model.ServerContext{BaseURI: deriveRequestBaseURL(r), Scheme: requestScheme(r)}
}

func requestScheme(r *http.Request) string {
	if r == nil {
		return "http"
	}
	if r.TLS != nil {
		return "https"
	}
	// Only the first hop matters when proxies append to the header.
	proto, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Proto"), ",")
	if strings.EqualFold(strings.TrimSpace(proto), "https") {
		return "https"
	}
	return "http"
}

func deriveRequestBaseURL(r *http.Request) string {
	if r == nil {
		return "http://127.0.0.1:8080"
	}
	host := r.Host
	if host == "" {
		host = "127.0.0.1:8080"
	}
	return requestScheme(r) + "://" + host
}

package httpapi

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/John-Robertt/robotstxt-go/internal/config"
	"github.com/John-Robertt/robotstxt-go/internal/model"
)

// Options controls HTTP API runtime behavior.
type Options struct {
	// Config is the normalized robots configuration served by /robots.txt.
	// nil means the built-in defaults for DeployEnv.
	Config *model.Configuration

	// DeployEnv is the deployment environment name; it seeds the active env
	// of documents posted to /api/preview.
	DeployEnv string

	// PublicBaseURL, when set, replaces the base URI derived from each
	// request (scheme + Host) when absolutizing sitemap paths.
	PublicBaseURL string

	// Logger receives access logs and verbose robots records.
	// nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Config == nil {
		cfg := config.Normalize(config.Options{}, o.DeployEnv)
		o.Config = &cfg
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.PublicBaseURL = strings.TrimRight(strings.TrimSpace(o.PublicBaseURL), "/")
	return o
}

// ValidatePublicBaseURL checks a -public-base-url value: it must be an
// absolute http/https URL without query or fragment.
func ValidatePublicBaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u == nil || !u.IsAbs() || u.Host == "" {
		return errors.New("url must be absolute")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("scheme must be http/https")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return errors.New("query and fragment are not allowed")
	}
	return nil
}

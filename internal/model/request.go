package model

// ServerContext describes how the serving endpoint is reached; it is used to
// absolutize relative sitemap paths.
type ServerContext struct {
	BaseURI string // e.g. "https://example.com", no trailing slash
	Scheme  string // "http" | "https"
}

// RequestContext is the part of an inbound request the resolver looks at.
type RequestContext struct {
	Host      string // port already stripped; matched exactly
	UserAgent string // empty when the header is absent
}

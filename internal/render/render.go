// Package render serializes a resolved RuleSet into robots.txt text.
//
// Output layout, with LF line terminators:
//
//	User-agent: *
//	Disallow: /
//	User-agent: Fred
//	Disallow:
//
//	Sitemap: https://example.com/sitemap.xml
//
// One terminator closes the last Disallow line. The sitemap block, when
// present, follows exactly one blank line. Sitemap entries are not validated;
// an empty entry renders as the bare base URI.
package render

import (
	"strings"

	"github.com/John-Robertt/robotstxt-go/internal/model"
)

// LineTerminator is used for every line of the document.
const LineTerminator = "\n"

// Render never fails; an empty RuleSet with no sitemaps yields "".
func Render(rs model.RuleSet, cfg *model.Configuration, server model.ServerContext) string {
	var b strings.Builder
	writeRules(&b, rs)

	if cfg == nil || len(cfg.Sitemaps) == 0 {
		return b.String()
	}
	forceHTTPS := cfg.ForceHTTPS || server.Scheme == "https"
	b.WriteString(LineTerminator)
	for _, entry := range cfg.Sitemaps {
		b.WriteString("Sitemap: ")
		b.WriteString(SitemapURL(entry, server.BaseURI, forceHTTPS))
		b.WriteString(LineTerminator)
	}
	return b.String()
}

func writeRules(b *strings.Builder, rs model.RuleSet) {
	for _, e := range rs.Entries {
		b.WriteString("User-agent: ")
		b.WriteString(e.Agent)
		b.WriteString(LineTerminator)

		if e.Rule.AllowAll() {
			b.WriteString("Disallow:")
			b.WriteString(LineTerminator)
			continue
		}
		for _, p := range e.Rule.Paths {
			b.WriteString("Disallow: ")
			b.WriteString(p)
			b.WriteString(LineTerminator)
		}
	}
}

// SitemapURL makes entry absolute against baseURI unless it already is an
// http(s) URL, then upgrades http:// to https:// when forceHTTPS is set.
func SitemapURL(entry, baseURI string, forceHTTPS bool) string {
	u := entry
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = baseURI + u
	}
	if forceHTTPS && strings.HasPrefix(u, "http://") {
		u = "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

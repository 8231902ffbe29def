package urlhandler

import "strings"

// defaultShortenerDomains lists the registrable domains of well-known URL
// shortening services. The registry is extended at runtime from
// configuration; the list itself carries no code dependencies.
var defaultShortenerDomains = []string{
	"adf.ly",
	"bc.vc",
	"bit.do",
	"bit.ly",
	"bl.ink",
	"buff.ly",
	"buzurl.com",
	"clck.ru",
	"cli.gs",
	"cutt.ly",
	"cutt.us",
	"db.tt",
	"filoops.info",
	"goo.gl",
	"ht.ly",
	"is.gd",
	"ity.im",
	"j.mp",
	"lc.chat",
	"lnkd.in",
	"ow.ly",
	"po.st",
	"q.gs",
	"qr.ae",
	"qr.net",
	"rb.gy",
	"rebrand.ly",
	"s.id",
	"shorturl.at",
	"soo.gd",
	"t.co",
	"t2m.io",
	"tiny.cc",
	"tinyurl.com",
	"tr.im",
	"u.to",
	"v.gd",
	"vzturl.com",
	"x.co",
	"yourls.org",
	"zpr.io",
}

// ShortenerRegistry is the set of domains classified as URL shorteners.
// It is built once at startup and read-only afterwards.
type ShortenerRegistry struct {
	domains map[string]struct{}
}

// NewShortenerRegistry creates a registry seeded with the built-in shortener
// list plus any extra domains from configuration.
func NewShortenerRegistry(extraDomains ...string) *ShortenerRegistry {
	domains := make(map[string]struct{}, len(defaultShortenerDomains)+len(extraDomains))
	for _, d := range defaultShortenerDomains {
		domains[d] = struct{}{}
	}
	for _, d := range extraDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains[d] = struct{}{}
		}
	}
	return &ShortenerRegistry{domains: domains}
}

// Contains reports whether the given domain belongs to a known shortener.
// Comparison is case-insensitive.
func (r *ShortenerRegistry) Contains(domain string) bool {
	_, ok := r.domains[strings.ToLower(domain)]
	return ok
}

// Len returns the number of registered shortener domains
func (r *ShortenerRegistry) Len() int {
	return len(r.domains)
}

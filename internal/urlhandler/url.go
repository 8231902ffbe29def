// Package urlhandler normalizes candidate URLs into their domain parts and
// resolves shortened URLs to their redirect targets.
package urlhandler

import (
	"net"
	"net/url"
	"strings"

	"iocscan/internal/errorwrapper"

	"golang.org/x/net/publicsuffix"
)

// NormalizedURL holds the parsed parts of a candidate URL.
// Domain is the full hostname (lower-cased, leading "www." stripped);
// TopLevel is the registrable domain (eTLD+1, public-suffix aware), so for
// "sub.example.co.uk" Domain is "sub.example.co.uk" and TopLevel is
// "example.co.uk". Constructed on demand per matching call, never persisted.
type NormalizedURL struct {
	Raw         string
	Scheme      string
	Domain      string
	TopLevel    string
	IsShortened bool
}

// Parse normalizes a raw URL string into a NormalizedURL, classifying it
// against the given shortener registry. A missing scheme defaults to http.
// URLs without a resolvable registrable domain (bare labels, IP addresses,
// malformed input) return an error; callers fall back to substring matching.
func Parse(rawURL string, registry *ShortenerRegistry) (*NormalizedURL, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return nil, errorwrapper.NewError("URL is empty or only whitespace")
	}

	// Add scheme if missing
	if !strings.Contains(trimmedURL, "://") && !strings.HasPrefix(trimmedURL, "//") {
		trimmedURL = "http://" + trimmedURL
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return nil, errorwrapper.NewError("could not parse URL '%s': %w", rawURL, err)
	}

	hostname := strings.ToLower(strings.TrimSuffix(parsedURL.Hostname(), "."))
	if hostname == "" {
		return nil, errorwrapper.NewError("URL lacks a valid hostname")
	}
	if net.ParseIP(hostname) != nil {
		return nil, errorwrapper.NewError("URL host '%s' is an IP address, not a domain", hostname)
	}

	domain := strings.TrimPrefix(hostname, "www.")

	topLevel, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return nil, errorwrapper.NewError("could not derive registrable domain for '%s': %w", hostname, err)
	}

	return &NormalizedURL{
		Raw:         rawURL,
		Scheme:      parsedURL.Scheme,
		Domain:      domain,
		TopLevel:    topLevel,
		IsShortened: registry != nil && registry.Contains(domain),
	}, nil
}

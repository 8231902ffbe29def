package urlhandler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"iocscan/internal/errorwrapper"
	"iocscan/internal/httpclient"

	"github.com/rs/zerolog"
)

// Unshortener resolves a shortened URL to its destination by issuing a HEAD
// request with redirects disabled and reading the Location response header.
// HEAD avoids downloading response bodies from untrusted shortener targets.
type Unshortener struct {
	client *httpclient.HTTPClient
	logger zerolog.Logger
}

// NewUnshortener creates an Unshortener with a dedicated no-redirect client.
// The timeout bounds each HEAD request so a hung shortener service cannot
// stall a scan.
func NewUnshortener(timeout time.Duration, logger zerolog.Logger) (*Unshortener, error) {
	client, err := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(timeout).
		WithFollowRedirects(false).
		Build()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to build unshortener HTTP client")
	}

	return &Unshortener{
		client: client,
		logger: logger.With().Str("component", "Unshortener").Logger(),
	}, nil
}

// Unshorten resolves rawURL one redirect hop. If the server does not answer
// with a redirect status or omits the Location header, the original URL is
// returned unchanged. Network failures and cancellation are reported as
// errors; no retries are performed.
func (u *Unshortener) Unshorten(ctx context.Context, rawURL string) (string, error) {
	resp, err := u.client.Head(ctx, rawURL)
	if err != nil {
		return rawURL, errorwrapper.NewNetworkError(rawURL, "unshorten HEAD request failed", err)
	}

	if resp.StatusCode < http.StatusMultipleChoices || resp.StatusCode >= http.StatusBadRequest {
		u.logger.Debug().Str("url", rawURL).Int("status_code", resp.StatusCode).Msg("No redirect returned, keeping original URL")
		return rawURL, nil
	}

	location := resp.Headers["Location"]
	if location == "" {
		return rawURL, nil
	}

	resolved := resolveLocation(rawURL, location)
	u.logger.Debug().Str("url", rawURL).Str("resolved", resolved).Msg("Resolved shortened URL")
	return resolved, nil
}

// resolveLocation resolves a possibly relative Location header against the
// requested URL.
func resolveLocation(rawURL, location string) string {
	base, err := url.Parse(rawURL)
	if err != nil {
		return location
	}
	ref, err := url.Parse(location)
	if err != nil {
		return location
	}
	return base.ResolveReference(ref).String()
}

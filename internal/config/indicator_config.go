package config

// IndicatorConfig defines configuration for indicator loading and matching
type IndicatorConfig struct {
	// BundlePath is the path to the STIX2 indicator bundle file.
	BundlePath string `json:"bundle_path,omitempty" yaml:"bundle_path,omitempty" validate:"omitempty,fileexists"`
	// MaxRedirectDepth caps the shortened-URL resolution chase. Redirect
	// cycles between shortener services terminate at this many hops.
	MaxRedirectDepth int `json:"max_redirect_depth,omitempty" yaml:"max_redirect_depth,omitempty" validate:"omitempty,min=1,max=32"`
	// UnshortenTimeoutSeconds is the timeout applied to each HEAD request
	// issued while resolving a shortened URL.
	UnshortenTimeoutSeconds int `json:"unshorten_timeout_seconds,omitempty" yaml:"unshorten_timeout_seconds,omitempty" validate:"omitempty,min=1,max=120"`
	// ExtraShortenerDomains extends the built-in shortener registry without
	// code changes. Entries are bare registrable domains, e.g. "sho.rt".
	ExtraShortenerDomains []string `json:"extra_shortener_domains,omitempty" yaml:"extra_shortener_domains,omitempty" validate:"omitempty,dive,hostname_rfc1123"`
}

// NewDefaultIndicatorConfig creates default indicator configuration
func NewDefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{
		MaxRedirectDepth:        DefaultMaxRedirectDepth,
		UnshortenTimeoutSeconds: DefaultUnshortenTimeoutSeconds,
	}
}

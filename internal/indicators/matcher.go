package indicators

import (
	"context"
	"fmt"
	"path"
	"strings"

	"iocscan/internal/urlhandler"

	"github.com/rs/zerolog"
)

// truncatedProcessNameLength is the fixed width the originating platform
// truncates long process names to. The truncation heuristic only applies at
// exactly this length; shorter names must not trigger prefix matching.
const truncatedProcessNameLength = 16

// URLUnshortener resolves a shortened URL one redirect hop
type URLUnshortener interface {
	Unshorten(ctx context.Context, rawURL string) (string, error)
}

// MatcherConfig holds the matching tunables
type MatcherConfig struct {
	// MaxRedirectDepth bounds the shortened-URL resolution chase so that
	// redirect cycles between shorteners always terminate.
	MaxRedirectDepth int
}

// DefaultMatcherConfig returns default matcher configuration
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		MaxRedirectDepth: 5,
	}
}

// Matcher provides stateless matching operations over an IndicatorSet.
// All Check methods are pure functions over the read-only set plus per-call
// input and are safe for concurrent use.
type Matcher struct {
	set         *IndicatorSet
	registry    *urlhandler.ShortenerRegistry
	unshortener URLUnshortener
	config      MatcherConfig
	logger      zerolog.Logger
}

// NewMatcher creates a Matcher over the given indicator set. The unshortener
// may be nil, in which case shortened URLs are matched as-is.
func NewMatcher(
	set *IndicatorSet,
	registry *urlhandler.ShortenerRegistry,
	unshortener URLUnshortener,
	cfg MatcherConfig,
	logger zerolog.Logger,
) *Matcher {
	if cfg.MaxRedirectDepth <= 0 {
		cfg.MaxRedirectDepth = DefaultMatcherConfig().MaxRedirectDepth
	}
	return &Matcher{
		set:         set,
		registry:    registry,
		unshortener: unshortener,
		config:      cfg,
		logger:      logger.With().Str("component", "IndicatorMatcher").Logger(),
	}
}

// CheckDomain checks a candidate URL against the domain indicators.
// Shortened URLs are resolved first, chasing nested shorteners up to the
// configured depth. URLs that cannot be parsed degrade to a low-confidence
// substring test; no error ever escapes a matching call.
func (m *Matcher) CheckDomain(ctx context.Context, rawURL string) MatchFinding {
	if rawURL == "" {
		return noMatch(KindDomain, rawURL)
	}

	orig, err := urlhandler.Parse(rawURL, m.registry)
	if err != nil {
		return m.checkDomainSubstring(rawURL)
	}

	final := m.resolveShortened(ctx, orig)

	for _, ioc := range m.set.Domains() {
		// First the full domain, then the registrable domain only. A
		// registrable-domain hit means a sub-domain of a flagged domain.
		if final.Domain == ioc {
			return m.domainFinding(orig, final, ioc, MatchTypeExact)
		}
		if final.TopLevel == ioc {
			return m.domainFinding(orig, final, ioc, MatchTypeTopLevel)
		}
	}

	return noMatch(KindDomain, rawURL)
}

// CheckDomains returns the first positive finding across an ordered sequence
// of candidate URLs, short-circuiting on the first match.
func (m *Matcher) CheckDomains(ctx context.Context, urls []string) MatchFinding {
	for _, u := range urls {
		if finding := m.CheckDomain(ctx, u); finding.Matched {
			return finding
		}
	}
	return noMatch(KindDomain, "")
}

// resolveShortened chases shortener redirects starting from orig, bounded by
// MaxRedirectDepth. On any failure (network error, timeout, cancellation,
// unparsable target) the chase stops and the last successfully parsed URL is
// returned for matching.
func (m *Matcher) resolveShortened(ctx context.Context, orig *urlhandler.NormalizedURL) *urlhandler.NormalizedURL {
	final := orig
	if m.unshortener == nil {
		return final
	}

	for depth := 0; final.IsShortened && depth < m.config.MaxRedirectDepth; depth++ {
		if ctx.Err() != nil {
			m.logger.Debug().Str("url", final.Raw).Msg("Unshorten chase cancelled, matching last resolved URL")
			break
		}

		resolved, err := m.unshortener.Unshorten(ctx, final.Raw)
		if err != nil {
			m.logger.Debug().Err(err).Str("url", final.Raw).Msg("Unshorten failed, matching last resolved URL")
			break
		}
		if resolved == final.Raw {
			break
		}

		next, err := urlhandler.Parse(resolved, m.registry)
		if err != nil {
			m.logger.Debug().Err(err).Str("url", resolved).Msg("Resolved URL is unparsable, matching last resolved URL")
			break
		}

		m.logger.Debug().Str("from", final.Raw).Str("to", next.Raw).Msg("Followed shortened URL")
		final = next
	}

	return final
}

// checkDomainSubstring is the fallback for unparsable URLs: a lower-cased
// substring containment test of each indicator domain inside the raw string.
// Malformed or partial URLs are common in forensic artifacts and must not
// abort a scan.
func (m *Matcher) checkDomainSubstring(rawURL string) MatchFinding {
	lowered := strings.ToLower(rawURL)
	for _, ioc := range m.set.Domains() {
		if strings.Contains(lowered, ioc) {
			m.logger.Warn().Str("url", rawURL).Str("indicator", ioc).Msg("Maybe found a known suspicious domain in unparsable URL")
			return MatchFinding{
				Matched:       true,
				Kind:          KindDomain,
				Type:          MatchTypeSubstring,
				MatchedValue:  rawURL,
				OriginalValue: rawURL,
				Indicator:     ioc,
				Detail:        fmt.Sprintf("unparsable URL contains indicator domain %q (low confidence)", ioc),
			}
		}
	}
	return noMatch(KindDomain, rawURL)
}

// domainFinding builds a positive domain finding, carrying both the original
// and the resolved URL when de-shortening occurred.
func (m *Matcher) domainFinding(orig, final *urlhandler.NormalizedURL, ioc string, matchType MatchType) MatchFinding {
	shortened := orig.Raw != final.Raw

	var detail string
	switch {
	case matchType == MatchTypeExact && shortened:
		detail = fmt.Sprintf("known suspicious domain %q shortened as %q", final.Raw, orig.Raw)
	case matchType == MatchTypeExact:
		detail = fmt.Sprintf("known suspicious domain %q", final.Raw)
	case shortened:
		detail = fmt.Sprintf("sub-domain of suspicious domain %q shortened as %q", final.Raw, orig.Raw)
	default:
		detail = fmt.Sprintf("sub-domain of suspicious domain %q", final.Raw)
	}

	m.logger.Warn().
		Str("url", final.Raw).
		Str("original_url", orig.Raw).
		Str("indicator", ioc).
		Str("match_type", string(matchType)).
		Msg("Found a known suspicious domain")

	return MatchFinding{
		Matched:       true,
		Kind:          KindDomain,
		Type:          matchType,
		MatchedValue:  final.Raw,
		OriginalValue: orig.Raw,
		Indicator:     ioc,
		Detail:        detail,
	}
}

// CheckProcess checks a process path or name against the process indicators.
// A basename of exactly 16 characters is treated as potentially truncated
// and matched as a prefix of longer indicator names.
func (m *Matcher) CheckProcess(processPath string) MatchFinding {
	if processPath == "" {
		return noMatch(KindProcess, processPath)
	}

	procName := path.Base(processPath)

	if m.set.HasProcess(procName) {
		m.logger.Warn().Str("process", processPath).Msg("Found a known suspicious process name")
		return MatchFinding{
			Matched:       true,
			Kind:          KindProcess,
			Type:          MatchTypeExact,
			MatchedValue:  procName,
			OriginalValue: processPath,
			Indicator:     procName,
			Detail:        fmt.Sprintf("known suspicious process name %q", procName),
		}
	}

	if len(procName) == truncatedProcessNameLength {
		for _, ioc := range m.set.Processes() {
			if strings.HasPrefix(ioc, procName) {
				m.logger.Warn().Str("process", processPath).Str("indicator", ioc).Msg("Found a truncated known suspicious process name")
				return MatchFinding{
					Matched:       true,
					Kind:          KindProcess,
					Type:          MatchTypeTruncated,
					MatchedValue:  procName,
					OriginalValue: processPath,
					Indicator:     ioc,
					Detail:        fmt.Sprintf("process name %q is a truncation of suspicious process %q", procName, ioc),
				}
			}
		}
	}

	return noMatch(KindProcess, processPath)
}

// CheckProcesses returns the first positive finding across a sequence of
// candidate process names, short-circuiting on the first match.
func (m *Matcher) CheckProcesses(processes []string) MatchFinding {
	for _, p := range processes {
		if finding := m.CheckProcess(p); finding.Matched {
			return finding
		}
	}
	return noMatch(KindProcess, "")
}

// CheckEmail checks an email address against the email indicators.
// Comparison is a case-insensitive exact match.
func (m *Matcher) CheckEmail(email string) MatchFinding {
	if email == "" {
		return noMatch(KindEmail, email)
	}

	if m.set.HasEmail(email) {
		m.logger.Warn().Str("email", email).Msg("Found a known suspicious email address")
		return MatchFinding{
			Matched:       true,
			Kind:          KindEmail,
			Type:          MatchTypeExact,
			MatchedValue:  email,
			OriginalValue: email,
			Indicator:     strings.ToLower(email),
			Detail:        fmt.Sprintf("known suspicious email address %q", email),
		}
	}

	return noMatch(KindEmail, email)
}

// CheckFile checks a file path against the file-name indicators.
// Comparison is a case-sensitive exact match on the basename.
func (m *Matcher) CheckFile(filePath string) MatchFinding {
	if filePath == "" {
		return noMatch(KindFile, filePath)
	}

	fileName := path.Base(filePath)
	if m.set.HasFile(fileName) {
		m.logger.Warn().Str("file", filePath).Msg("Found a known suspicious file")
		return MatchFinding{
			Matched:       true,
			Kind:          KindFile,
			Type:          MatchTypeExact,
			MatchedValue:  fileName,
			OriginalValue: filePath,
			Indicator:     fileName,
			Detail:        fmt.Sprintf("known suspicious file name %q", fileName),
		}
	}

	return noMatch(KindFile, filePath)
}

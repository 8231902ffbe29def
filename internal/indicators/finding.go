package indicators

// IndicatorKind identifies the indicator category a finding matched against
type IndicatorKind string

const (
	KindDomain  IndicatorKind = "domain"
	KindProcess IndicatorKind = "process"
	KindEmail   IndicatorKind = "email"
	KindFile    IndicatorKind = "file"
)

// MatchType distinguishes how a candidate matched an indicator
type MatchType string

const (
	// MatchTypeNone means no indicator matched.
	MatchTypeNone MatchType = ""
	// MatchTypeExact is a full-value match (full domain, process name,
	// email address or file name).
	MatchTypeExact MatchType = "exact"
	// MatchTypeTopLevel means the candidate is a sub-domain of a flagged
	// registrable domain. A weaker signal than a full domain match.
	MatchTypeTopLevel MatchType = "top_level_domain"
	// MatchTypeSubstring is the low-confidence fallback applied to URLs
	// that could not be parsed.
	MatchTypeSubstring MatchType = "substring"
	// MatchTypeTruncated means a 16-character process name matched the
	// prefix of a longer known-bad process name.
	MatchTypeTruncated MatchType = "truncated"
)

// MatchFinding is the result of a single match attempt. It is returned by
// value; the matcher holds no mutable state.
type MatchFinding struct {
	Matched bool          `json:"matched"`
	Kind    IndicatorKind `json:"indicator_kind"`
	Type    MatchType     `json:"match_type,omitempty"`
	// MatchedValue is the artifact that triggered the match. For domain
	// checks this may be an intermediate resolved URL rather than the
	// original input.
	MatchedValue string `json:"matched_value,omitempty"`
	// OriginalValue is the candidate as supplied by the caller. It differs
	// from MatchedValue when de-shortening occurred, so callers can report
	// the redirect chain, not just the destination.
	OriginalValue string `json:"original_value,omitempty"`
	// Indicator is the indicator value that matched.
	Indicator string `json:"indicator,omitempty"`
	// Detail is a human-readable explanation of the finding.
	Detail string `json:"detail,omitempty"`
}

// noMatch returns a negative finding for the given category and candidate
func noMatch(kind IndicatorKind, original string) MatchFinding {
	return MatchFinding{
		Matched:       false,
		Kind:          kind,
		Type:          MatchTypeNone,
		OriginalValue: original,
	}
}

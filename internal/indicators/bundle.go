package indicators

import (
	"strings"
)

// STIX2 pattern keys recognized by the loader. Any other key is ignored:
// the bundle format is a superset this loader may not fully understand.
const (
	patternKeyDomain  = "domain-name:value"
	patternKeyProcess = "process:name"
	patternKeyEmail   = "email-addr:value"
	patternKeyFile    = "file:name"
)

// stixBundle is the outer JSON envelope of a STIX2 indicator bundle
type stixBundle struct {
	Objects []stixObject `json:"objects"`
}

// stixObject is the subset of a STIX2 object the loader consumes. Objects
// with a missing type or pattern decode to empty strings and are skipped.
type stixObject struct {
	Type    string `json:"type"`
	Pattern string `json:"pattern"`
}

// SchemaError reports an indicator object whose pattern does not conform to
// the expected "[<key> = '<value>']" shape.
type SchemaError struct {
	Pattern string
	Reason  string
}

func (e *SchemaError) Error() string {
	return "invalid indicator pattern '" + e.Pattern + "': " + e.Reason
}

// parsePattern splits a STIX2 pattern of the form "[<key> = '<value>']" into
// its key and value, stripping surrounding brackets, whitespace and quotes.
func parsePattern(pattern string) (string, string, error) {
	trimmed := strings.Trim(strings.TrimSpace(pattern), "[]")

	parts := strings.Split(trimmed, "=")
	if len(parts) != 2 {
		return "", "", &SchemaError{
			Pattern: pattern,
			Reason:  "expected exactly one '='-separated key/value pair",
		}
	}

	key := strings.TrimSpace(parts[0])
	value := strings.Trim(strings.TrimSpace(parts[1]), "'")
	if key == "" {
		return "", "", &SchemaError{Pattern: pattern, Reason: "empty key"}
	}

	return key, value, nil
}

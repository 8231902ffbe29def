// Package indicators parses STIX2 threat-intelligence bundles into typed
// indicator sets and matches candidate artifacts against them.
package indicators

import (
	"encoding/json"
	"os"
	"strings"

	"iocscan/internal/errorwrapper"

	"github.com/rs/zerolog"
)

// IndicatorSet holds the four de-duplicated indicator categories parsed from
// a bundle. It is built once at load time and never mutated afterwards, so
// it is safe for unlimited concurrent read access.
type IndicatorSet struct {
	domains   []string
	processes []string
	emails    []string
	files     []string

	domainIndex  map[string]struct{}
	processIndex map[string]struct{}
	emailIndex   map[string]struct{}
	fileIndex    map[string]struct{}
}

func newIndicatorSet() *IndicatorSet {
	return &IndicatorSet{
		domainIndex:  make(map[string]struct{}),
		processIndex: make(map[string]struct{}),
		emailIndex:   make(map[string]struct{}),
		fileIndex:    make(map[string]struct{}),
	}
}

// LoadIndicatorSet reads and parses a STIX2 indicator bundle from filePath.
// Domains and emails are lower-cased; process and file names keep their
// case. Duplicate values collapse to a single entry. A malformed indicator
// pattern fails the whole load with a SchemaError.
func LoadIndicatorSet(filePath string, logger zerolog.Logger) (*IndicatorSet, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read indicator bundle")
	}

	var bundle stixBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse indicator bundle")
	}

	set := newIndicatorSet()
	for _, obj := range bundle.Objects {
		if obj.Type != "indicator" || obj.Pattern == "" {
			continue
		}

		key, value, err := parsePattern(obj.Pattern)
		if err != nil {
			return nil, err
		}
		if value == "" {
			continue
		}

		switch key {
		case patternKeyDomain:
			set.addDomain(strings.ToLower(value))
		case patternKeyProcess:
			set.addProcess(value)
		case patternKeyEmail:
			set.addEmail(strings.ToLower(value))
		case patternKeyFile:
			set.addFile(value)
		}
		// Unknown indicator keys are ignored, not errors.
	}

	logger.Info().
		Str("bundle", filePath).
		Int("domains", len(set.domains)).
		Int("processes", len(set.processes)).
		Int("emails", len(set.emails)).
		Int("files", len(set.files)).
		Msg("Indicator bundle loaded")

	return set, nil
}

func (s *IndicatorSet) addDomain(value string) {
	if _, exists := s.domainIndex[value]; exists {
		return
	}
	s.domainIndex[value] = struct{}{}
	s.domains = append(s.domains, value)
}

func (s *IndicatorSet) addProcess(value string) {
	if _, exists := s.processIndex[value]; exists {
		return
	}
	s.processIndex[value] = struct{}{}
	s.processes = append(s.processes, value)
}

func (s *IndicatorSet) addEmail(value string) {
	if _, exists := s.emailIndex[value]; exists {
		return
	}
	s.emailIndex[value] = struct{}{}
	s.emails = append(s.emails, value)
}

func (s *IndicatorSet) addFile(value string) {
	if _, exists := s.fileIndex[value]; exists {
		return
	}
	s.fileIndex[value] = struct{}{}
	s.files = append(s.files, value)
}

// Domains returns the domain indicators in insertion order
func (s *IndicatorSet) Domains() []string {
	return s.domains
}

// Processes returns the process-name indicators in insertion order
func (s *IndicatorSet) Processes() []string {
	return s.processes
}

// HasProcess reports exact (case-sensitive) process-name membership
func (s *IndicatorSet) HasProcess(name string) bool {
	_, ok := s.processIndex[name]
	return ok
}

// HasEmail reports case-insensitive email membership
func (s *IndicatorSet) HasEmail(email string) bool {
	_, ok := s.emailIndex[strings.ToLower(email)]
	return ok
}

// HasFile reports exact (case-sensitive) file-name membership
func (s *IndicatorSet) HasFile(name string) bool {
	_, ok := s.fileIndex[name]
	return ok
}

// Counts returns the number of indicators per category
// (domains, processes, emails, files).
func (s *IndicatorSet) Counts() (int, int, int, int) {
	return len(s.domains), len(s.processes), len(s.emails), len(s.files)
}

package indicators

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBundle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadIndicatorSet_AllCategories(t *testing.T) {
	bundle := `{
		"type": "bundle",
		"objects": [
			{"type": "indicator", "pattern": "[domain-name:value = 'Evil.COM']"},
			{"type": "indicator", "pattern": "[process:name = 'BadProcess']"},
			{"type": "indicator", "pattern": "[email-addr:value = 'Attacker@Evil.com']"},
			{"type": "indicator", "pattern": "[file:name = 'Implant.dylib']"},
			{"type": "malware", "name": "not an indicator"}
		]
	}`

	set, err := LoadIndicatorSet(writeBundle(t, bundle), zerolog.Nop())
	require.NoError(t, err)

	// Domains and emails are lower-cased, process and file names keep case.
	assert.Equal(t, []string{"evil.com"}, set.Domains())
	assert.Equal(t, []string{"BadProcess"}, set.Processes())
	assert.True(t, set.HasProcess("BadProcess"))
	assert.False(t, set.HasProcess("badprocess"))
	assert.True(t, set.HasEmail("attacker@evil.com"))
	assert.True(t, set.HasEmail("ATTACKER@EVIL.COM"))
	assert.True(t, set.HasFile("Implant.dylib"))
	assert.False(t, set.HasFile("implant.dylib"))
}

func TestLoadIndicatorSet_Deduplicates(t *testing.T) {
	bundle := `{
		"objects": [
			{"type": "indicator", "pattern": "[domain-name:value = 'evil.com']"},
			{"type": "indicator", "pattern": "[domain-name:value = 'EVIL.com']"},
			{"type": "indicator", "pattern": "[domain-name:value = 'evil.com']"}
		]
	}`

	set, err := LoadIndicatorSet(writeBundle(t, bundle), zerolog.Nop())
	require.NoError(t, err)

	domains, _, _, _ := set.Counts()
	assert.Equal(t, 1, domains)
}

func TestLoadIndicatorSet_MalformedPatternFailsLoad(t *testing.T) {
	bundle := `{
		"objects": [
			{"type": "indicator", "pattern": "[domain-name:value = 'good.com']"},
			{"type": "indicator", "pattern": "not a pattern at all"}
		]
	}`

	set, err := LoadIndicatorSet(writeBundle(t, bundle), zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, set)

	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestLoadIndicatorSet_UnknownKeyIgnored(t *testing.T) {
	bundle := `{
		"objects": [
			{"type": "indicator", "pattern": "[ipv4-addr:value = '10.0.0.1']"},
			{"type": "indicator", "pattern": "[domain-name:value = 'evil.com']"}
		]
	}`

	set, err := LoadIndicatorSet(writeBundle(t, bundle), zerolog.Nop())
	require.NoError(t, err)

	domains, processes, emails, files := set.Counts()
	assert.Equal(t, 1, domains)
	assert.Zero(t, processes)
	assert.Zero(t, emails)
	assert.Zero(t, files)
}

func TestLoadIndicatorSet_MissingFile(t *testing.T) {
	set, err := LoadIndicatorSet(filepath.Join(t.TempDir(), "nope.json"), zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, set)
}

func TestLoadIndicatorSet_InvalidJSON(t *testing.T) {
	set, err := LoadIndicatorSet(writeBundle(t, "{not json"), zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, set)
}

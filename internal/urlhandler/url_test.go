package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	registry := NewShortenerRegistry()

	tests := []struct {
		name         string
		rawURL       string
		wantDomain   string
		wantTopLevel string
		wantShort    bool
		wantErr      bool
	}{
		{
			name:         "plain https URL",
			rawURL:       "https://example.com/path?q=1",
			wantDomain:   "example.com",
			wantTopLevel: "example.com",
		},
		{
			name:         "scheme added when missing",
			rawURL:       "example.com/login",
			wantDomain:   "example.com",
			wantTopLevel: "example.com",
		},
		{
			name:         "hostname lower-cased",
			rawURL:       "https://EXAMPLE.Com",
			wantDomain:   "example.com",
			wantTopLevel: "example.com",
		},
		{
			name:         "www prefix stripped",
			rawURL:       "http://www.example.com",
			wantDomain:   "example.com",
			wantTopLevel: "example.com",
		},
		{
			name:         "sub-domain keeps full host",
			rawURL:       "https://a.b.example.com",
			wantDomain:   "a.b.example.com",
			wantTopLevel: "example.com",
		},
		{
			name:         "multi-label public suffix",
			rawURL:       "https://shop.example.co.uk",
			wantDomain:   "shop.example.co.uk",
			wantTopLevel: "example.co.uk",
		},
		{
			name:         "trailing dot trimmed",
			rawURL:       "https://example.com.",
			wantDomain:   "example.com",
			wantTopLevel: "example.com",
		},
		{
			name:         "known shortener",
			rawURL:       "https://bit.ly/abc",
			wantDomain:   "bit.ly",
			wantTopLevel: "bit.ly",
			wantShort:    true,
		},
		{
			name:    "empty input",
			rawURL:  "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			rawURL:  "   ",
			wantErr: true,
		},
		{
			name:    "bare label has no registrable domain",
			rawURL:  "http://intranet/page",
			wantErr: true,
		},
		{
			name:    "IPv4 host",
			rawURL:  "http://192.168.1.1/admin",
			wantErr: true,
		},
		{
			name:    "IPv6 host",
			rawURL:  "http://[::1]/admin",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.rawURL, registry)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rawURL, got.Raw)
			assert.Equal(t, tt.wantDomain, got.Domain)
			assert.Equal(t, tt.wantTopLevel, got.TopLevel)
			assert.Equal(t, tt.wantShort, got.IsShortened)
		})
	}
}

func TestParse_NilRegistry(t *testing.T) {
	got, err := Parse("https://bit.ly/abc", nil)
	require.NoError(t, err)
	assert.False(t, got.IsShortened)
}

func TestShortenerRegistry(t *testing.T) {
	registry := NewShortenerRegistry("sho.rt")

	assert.True(t, registry.Contains("bit.ly"))
	assert.True(t, registry.Contains("BIT.LY"))
	assert.True(t, registry.Contains("sho.rt"))
	assert.False(t, registry.Contains("example.com"))
	assert.Greater(t, registry.Len(), 1)
}

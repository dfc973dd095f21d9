package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  float64
		ok    bool
	}{
		{"plain", "450000", 450000, true},
		{"thousands separators", "450,000", 450000, true},
		{"k suffix", "450k", 450000, true},
		{"decimal k suffix", "2.5k", 2500, true},
		{"rm prefix", "rm1,200", 1200, true},
		{"rm prefix with space", "rm 1,200", 1200, true},
		{"non numeric", "abc", 0, false},
		{"zero", "0", 0, false},
		{"negative", "-5", 0, false},
		{"empty", "", 0, false},
		{"bare k", "k", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.token)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		token string
		want  int
		ok    bool
	}{
		{"3", 3, true},
		{"20", 20, true},
		{"0", 0, false},
		{"21", 0, false},
		{"x", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseCount(tt.token)
		assert.Equal(t, tt.ok, ok, "token %q", tt.token)
		if ok {
			assert.Equal(t, tt.want, got, "token %q", tt.token)
		}
	}
}

func TestContainsPhraseWholeWords(t *testing.T) {
	tests := []struct {
		text   string
		phrase string
		want   bool
	}{
		{"hi there", "hi", true},
		{"this is fine", "hi", false},
		{"under rm2500", "rm", false}, // part of the amount token
		{"3 bedroom condo", "rm", false},
		{"good morning everyone", "good morning", true},
		{"a goodbye note", "bye", false},
		{"bye!", "bye", true},
		{"in johor bahru", "johor", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsPhrase(Normalize(tt.text), tt.phrase),
			"text %q phrase %q", tt.text, tt.phrase)
	}
}

func TestMatchPropertyTypes(t *testing.T) {
	got := MatchPropertyTypes(Normalize("a condo or maybe an apartment, even a condominium"))
	assert.Equal(t, []string{"condo", "apartment"}, got)
}

func TestMatchAmenities(t *testing.T) {
	got := MatchAmenities(Normalize("needs a swimming pool, gym and covered parking"))
	assert.Equal(t, []string{"gym", "parking", "pool"}, got)
}

func TestAmenityMatches(t *testing.T) {
	assert.True(t, AmenityMatches("pool", "Swimming Pool"))
	assert.True(t, AmenityMatches("gym", "Fitness Center"))
	assert.True(t, AmenityMatches("parking", "Covered parking"))
	assert.False(t, AmenityMatches("pool", "Playground"))
}

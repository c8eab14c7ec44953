package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrandMatches(t *testing.T) {
	brand := Brand{ID: "b1", Code: "SONY", LegacyID: "mongo-b1"}

	tests := []struct {
		name string
		ref  string
		want bool
	}{
		{"canonical id", "b1", true},
		{"legacy id", "mongo-b1", true},
		{"code", "SONY", true},
		{"whitespace trimmed", "  b1  ", true},
		{"unknown", "b2", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, brand.Matches(tt.ref))
		})
	}
}

func TestBrandMatchesEmptyFieldsNeverMatchEmptyRef(t *testing.T) {
	brand := Brand{ID: "b1"}
	assert.False(t, brand.Matches(""))
	assert.False(t, brand.Matches("   "))
}

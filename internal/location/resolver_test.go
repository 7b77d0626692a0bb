package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		property string
		want     string
		found    bool
	}{
		{"model only", "Ceiba", "https://www.google.com/maps?q=19.0319,-98.2063", true},
		{"model with lot number", "Ceiba 24", "https://www.google.com/maps?q=19.0319,-98.2063", true},
		{"model with suffix words", "Halcón Residencial Norte", "https://www.google.com/maps?q=19.0450,-98.1850", true},
		{"accented model", "Águila 7", "https://www.google.com/maps?q=19.0450,-98.1850", true},
		{"unknown model", "Palmera 3", "", false},
		{"empty name", "", "", false},
		{"whitespace only", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.property)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

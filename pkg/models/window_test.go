package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow_TableDriven(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid range", "2024-01-01", "2024-01-31", false},
		{"single day", "2024-01-15", "2024-01-15", false},
		{"end before start", "2024-02-01", "2024-01-01", true},
		{"missing start", "", "2024-01-31", true},
		{"missing end", "2024-01-01", "", true},
		{"bad format", "01/01/2024", "2024-01-31", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseWindow(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
		})
	}
}

func TestWindowContains_BoundsInclusive(t *testing.T) {
	w := &Window{Start: "2024-01-10", End: "2024-01-20"}

	assert.True(t, w.Contains("2024-01-10"))
	assert.True(t, w.Contains("2024-01-20"))
	assert.True(t, w.Contains("2024-01-15"))
	assert.False(t, w.Contains("2024-01-09"))
	assert.False(t, w.Contains("2024-01-21"))
}

package customer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{JSON, XML, CSV, Text, All} {
		parsed, err := ParseFormat(strings.ToUpper(f.String()))
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		contentType string
		want        Format
	}{
		{"application/json", JSON},
		{"application/json; charset=utf-8", JSON},
		{"Application/JSON", JSON},
		{"application/xml", XML},
		{"text/xml; charset=iso-8859-2", XML},
		{"text/csv", CSV},
		{"text/plain", Text},
		{"application/x-www-form-urlencoded", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOf(tt.contentType))
		})
	}
}

func TestFormat_Accepts(t *testing.T) {
	t.Run("csv rejects json", func(t *testing.T) {
		assert.False(t, CSV.Accepts("application/json"))
	})
	t.Run("csv accepts csv with charset", func(t *testing.T) {
		assert.True(t, CSV.Accepts("text/csv; charset=utf-8"))
	})
	t.Run("all accepts anything", func(t *testing.T) {
		assert.True(t, All.Accepts("application/octet-stream"))
		assert.True(t, All.Accepts(""))
	})
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("mpl-zlin"))
	assert.True(t, ValidID("ACME_01"))
	assert.True(t, ValidID(strings.Repeat("a", 64)))
	assert.False(t, ValidID(strings.Repeat("a", 65)))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("a/b"))
	assert.False(t, ValidID("a.b"))
}

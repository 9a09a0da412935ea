package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"table", "tabel", 2},
		{"noid", "no_id", 1},
		{"kitten", "sitting", 3},
		{"größe", "grösse", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, editDistance(tt.a, tt.b))
			assert.Equal(t, tt.want, editDistance(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("", ""), 0.001)
	assert.InDelta(t, 0.0, similarity("abc", "xyz"), 0.001)
	assert.InDelta(t, 0.75, similarity("abcd", "abce"), 0.001)
}

func TestSuggest(t *testing.T) {
	options := []string{"model", "table", "id_name", "id_type", "connection", "no_id"}

	assert.Equal(t, []string{"table"}, Suggest("tabel", options, 1))
	assert.Equal(t, []string{"id_name", "id_type"}, Suggest("idname", options, 2))
	assert.Equal(t, []string{"id_name"}, Suggest("IDName", options, 1))
	assert.Equal(t, []string{"connection"}, Suggest("conection", options, 3))
	assert.Empty(t, Suggest("zzzzzz", options, 3))
}

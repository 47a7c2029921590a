package cli

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "shorter than limit", in: "Granola", n: 10, want: "Granola"},
		{name: "exactly at limit", in: "Granola", n: 7, want: "Granola"},
		{name: "over limit", in: "Chocolate Hazelnut Spread", n: 10, want: "Chocolate…"},
		{name: "multibyte product name", in: "Crème Brûlée Yogurt", n: 8, want: "Crème B…"},
		{name: "cyrillic", in: "Шоколадная паста", n: 10, want: "Шоколадна…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

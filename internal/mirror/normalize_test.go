package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "14:30:05", "14:30:05"},
		{"single digit parts", "9:5", "09:05:00"},
		{"missing seconds", "14:30", "14:30:00"},
		{"blank seconds", "14:30:", "14:30:00"},
		{"surrounding whitespace", "  8:15:00 ", "08:15:00"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"no separators", "930", ""},
		{"free text", "morning", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeClock(tc.in))
		})
	}
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVotes(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"১,২৩৪", 1234},
		{"১২৩৪", 1234},
		{"1,234", 1234},
		{"০", 0},
		{"", 0},
		{"  ৫৬৭ ", 567},
		{"১,০০,০০০", 100000},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseVotes(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVotesMalformed(t *testing.T) {
	for _, raw := range []string{"abc", "১২x", "-5", "1.5"} {
		t.Run(raw, func(t *testing.T) {
			n, err := ParseVotes(raw)
			assert.ErrorIs(t, err, ErrMalformedNumeral)
			assert.Zero(t, n)
			assert.Zero(t, ToInt(raw))
		})
	}
}

func TestToIntIdempotent(t *testing.T) {
	raw := "৯,৮৭৬"
	first := ToInt(raw)
	assert.Equal(t, int64(9876), first)
	assert.Equal(t, first, ToInt(raw))
}

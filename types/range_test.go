package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    Range
		want int
	}{
		{"single index", Range{Start: 5, End: 5}, 1},
		{"multiple", Range{Start: 0, End: 864}, 865},
		{"empty", Range{Start: 3, End: 2}, 0},
		{"zero start", Range{Start: 0, End: 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.r.Size())
		})
	}
}

func TestRangeIsEmpty(t *testing.T) {
	t.Parallel()

	require.True(t, Range{Start: 1, End: 0}.IsEmpty())
	require.False(t, Range{Start: 0, End: 0}.IsEmpty())
	require.False(t, Range{Start: 0, End: 100}.IsEmpty())
}

func TestRangeContains(t *testing.T) {
	t.Parallel()

	r := Range{Start: 10, End: 20}
	require.True(t, r.Contains(10))
	require.True(t, r.Contains(15))
	require.True(t, r.Contains(20))
	require.False(t, r.Contains(9))
	require.False(t, r.Contains(21))

	empty := Range{Start: 5, End: 4}
	require.False(t, empty.Contains(5))
	require.False(t, empty.Contains(4))
}

func TestRangeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[0, 864]", Range{Start: 0, End: 864}.String())
	require.Equal(t, "[empty]", Range{Start: 1, End: 0}.String())
}

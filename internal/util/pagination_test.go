package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampSkipLimit(t *testing.T) {
	cases := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{0, 10, 0, 10},
		{-5, 10, 0, 10},
		{3, 0, 3, DefaultPageSize},
		{3, -1, 3, DefaultPageSize},
		{3, MaxPageSize, 3, MaxPageSize},
		{3, MaxPageSize + 1, 3, DefaultPageSize},
	}
	for _, tc := range cases {
		skip, limit := ClampSkipLimit(tc.skip, tc.limit)
		require.Equal(t, tc.wantSkip, skip)
		require.Equal(t, tc.wantLimit, limit)
	}
}

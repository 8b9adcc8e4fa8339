package dates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToDateOnly(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-03-14", "2025-03-14"},
		{"2025-03-14T10:30:00Z", "2025-03-14"},
		{"2025-03-14T10:30", "2025-03-14"},
		{"2025/03/14", "2025-03-14"},
	}
	for _, tc := range cases {
		got := ToDateOnly(tc.in)
		require.NotNil(t, got, tc.in)
		require.Equal(t, tc.want, *got, tc.in)
	}
}

func TestToDateOnlyUnparsable(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-date", "14th of March"} {
		require.Nil(t, ToDateOnly(in), in)
	}
}

func TestToTime(t *testing.T) {
	got := ToTime("2025-03-14T10:30:00Z")
	require.NotNil(t, got)
	require.Equal(t, 2025, got.Year())
	require.Nil(t, ToTime("garbage"))
}

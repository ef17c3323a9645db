package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMinMax(t *testing.T) {
	require.Equal(t, 1, Min(1, 2))
	require.Equal(t, 2, Max(1, 2))
	require.Equal(t, time.Second, Min(time.Second, time.Minute))
}

func TestMinNonZeroTime(t *testing.T) {
	a := time.Unix(100, 0)
	b := time.Unix(200, 0)
	require.Equal(t, a, MinNonZeroTime(a, b))
	require.Equal(t, a, MinNonZeroTime(b, a))
	require.Equal(t, a, MinNonZeroTime(a, time.Time{}))
	require.Equal(t, b, MinNonZeroTime(time.Time{}, b))
	require.True(t, MinNonZeroTime(time.Time{}, time.Time{}).IsZero())
}

package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShareSplitsEvenly(t *testing.T) {
	t.Parallel()

	require.Equal(t, 3000.0, Share(9000, 3))
	require.InDelta(t, 33.33333333, Share(100, 3), 1e-8)
	require.Equal(t, 0.0, Share(100, 0))
}

func TestSubFlooredNeverGoesNegative(t *testing.T) {
	t.Parallel()

	require.Equal(t, 200.0, SubFloored(500, 300))
	require.Equal(t, 0.0, SubFloored(100, 300))
	require.Equal(t, 0.0, SubFloored(0, 1))
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.3, Sum([]float64{0.1, 0.1, 0.1}))
	require.Equal(t, 0.0, Sum(nil))
}

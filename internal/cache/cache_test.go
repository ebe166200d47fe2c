package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNilClientIsANoOp exercises the disabled-cache path: every method
// must succeed silently and report a miss, so callers never need a
// separate "is caching enabled" branch (SPEC_FULL.md §11).
func TestNilClientIsANoOp(t *testing.T) {
	var c *Client
	ctx := context.Background()

	require.NoError(t, c.SaveRoundDecision(ctx, 1, map[string]int{"a": 1}))

	var dest map[string]int
	ok, err := c.GetRoundDecision(ctx, 1, &dest)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.SaveSnapshot(ctx, map[string]int{"round": 1}))
	ok, err = c.GetSnapshot(ctx, &dest)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Close())
}

func TestDecisionKeyIsPerRound(t *testing.T) {
	require.Equal(t, "kitagent:round:1:decision", decisionKey(1))
	require.NotEqual(t, decisionKey(1), decisionKey(2))
}

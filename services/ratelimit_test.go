package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limiterAt(start time.Time) (*MemoryCounterStore, *time.Time) {
	now := start
	store := NewMemoryCounterStore()
	store.now = func() time.Time { return now }
	return store, &now
}

func TestMemoryCounterStore_BlocksAfterMaxAttempts(t *testing.T) {
	store, _ := limiterAt(time.Unix(1700000000, 0))
	policy := RatePolicy{MaxAttempts: 5, Window: time.Minute}

	for i := 0; i < 5; i++ {
		res, err := store.Hit("u1:report", policy)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "attempt %d should pass", i+1)
	}

	// Sixth call in the window is rejected and blocked for 2x the window
	// (the default block duration).
	res, err := store.Hit("u1:report", policy)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 2*time.Minute, res.RetryAfter)
}

func TestMemoryCounterStore_WindowBoundaryIsStrict(t *testing.T) {
	store, now := limiterAt(time.Unix(1700000000, 0))
	policy := RatePolicy{MaxAttempts: 2, Window: time.Minute}

	_, err := store.Hit("exact", policy)
	require.NoError(t, err)
	_, err = store.Hit("exact", policy)
	require.NoError(t, err)
	_, err = store.Hit("past", policy)
	require.NoError(t, err)
	_, err = store.Hit("past", policy)
	require.NoError(t, err)

	// Exactly at windowStart+window the old window still applies, so this
	// third hit exceeds the limit instead of opening a fresh window.
	*now = now.Add(time.Minute)
	res, err := store.Hit("exact", policy)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	// One instant past the boundary the window has elapsed and the count
	// starts over.
	*now = now.Add(time.Millisecond)
	res, err = store.Hit("past", policy)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryCounterStore_BlockRejectsRegardlessOfCount(t *testing.T) {
	store, now := limiterAt(time.Unix(1700000000, 0))
	policy := RatePolicy{MaxAttempts: 1, Window: time.Minute, BlockDuration: 5 * time.Minute}

	_, _ = store.Hit("k", policy)
	res, _ := store.Hit("k", policy)
	require.False(t, res.Allowed)
	require.Equal(t, 5*time.Minute, res.RetryAfter)

	// Still blocked partway through, with the remaining wait reported.
	*now = now.Add(time.Minute)
	res, err := store.Hit("k", policy)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 4*time.Minute, res.RetryAfter)
}

func TestMemoryCounterStore_ResetsAfterBlockExpires(t *testing.T) {
	store, now := limiterAt(time.Unix(1700000000, 0))
	policy := RatePolicy{MaxAttempts: 1, Window: time.Minute}

	_, _ = store.Hit("k", policy)
	res, _ := store.Hit("k", policy)
	require.False(t, res.Allowed)

	// After the block expires the entry resets to a fresh window; the old
	// count must not leak into the new one.
	*now = now.Add(2*time.Minute + time.Second)
	res, err := store.Hit("k", policy)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryCounterStore_KeysAreIndependent(t *testing.T) {
	store, _ := limiterAt(time.Unix(1700000000, 0))
	policy := RatePolicy{MaxAttempts: 1, Window: time.Minute}

	_, _ = store.Hit("a", policy)
	res, _ := store.Hit("a", policy)
	require.False(t, res.Allowed)

	res, err := store.Hit("b", policy)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestFormatRetryAfter(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{1000 * time.Millisecond, "1 second"},
		{1500 * time.Millisecond, "2 seconds"},
		{59 * time.Second, "59 seconds"},
		{60 * time.Second, "1 minute"},
		{90 * time.Second, "2 minutes"},
		{59*time.Minute + 30*time.Second, "60 minutes"},
		{time.Hour, "1 hour"},
		{90 * time.Minute, "2 hours"},
		{25 * time.Hour, "25 hours"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatRetryAfter(tc.d), "FormatRetryAfter(%v)", tc.d)
	}
}

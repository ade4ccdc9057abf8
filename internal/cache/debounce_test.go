package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDebouncerAcceptsFirstScan(t *testing.T) {
	d := NewMemoryDebouncer(2 * time.Minute)

	ok, err := d.Accept(context.Background(), "04:A1:B2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryDebouncerRejectsWithinCooldown(t *testing.T) {
	d := NewMemoryDebouncer(2 * time.Minute)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return base })

	ok, remaining := d.AcceptWithRemaining("04:A1:B2")
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), remaining)

	d.SetClock(func() time.Time { return base.Add(30 * time.Second) })

	ok, remaining = d.AcceptWithRemaining("04:A1:B2")
	assert.False(t, ok)
	assert.Equal(t, 90*time.Second, remaining)
}

func TestMemoryDebouncerAcceptsAfterCooldown(t *testing.T) {
	d := NewMemoryDebouncer(2 * time.Minute)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return base })

	ok, _ := d.AcceptWithRemaining("04:A1:B2")
	require.True(t, ok)

	d.SetClock(func() time.Time { return base.Add(2 * time.Minute) })

	ok, _ = d.AcceptWithRemaining("04:A1:B2")
	assert.True(t, ok)
}

func TestMemoryDebouncerTracksTagsIndependently(t *testing.T) {
	d := NewMemoryDebouncer(2 * time.Minute)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return base })

	ok, _ := d.AcceptWithRemaining("04:A1:B2")
	require.True(t, ok)

	ok, _ = d.AcceptWithRemaining("04:C3:D4")
	assert.True(t, ok, "a different tag should not share the cooldown window")
}

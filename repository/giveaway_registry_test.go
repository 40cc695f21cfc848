package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"giveaway-bot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGiveaway(id string, opts ...func(*entities.Giveaway)) *entities.Giveaway {
	g := &entities.Giveaway{
		ID:           id,
		GuildID:      100,
		ChannelID:    200,
		HostID:       300,
		Prize:        "Gift Card",
		EntryEmoji:   "🎉",
		WinnerCount:  1,
		EndsAt:       time.Now().UTC().Add(time.Hour),
		CreatedAt:    time.Now().UTC(),
		Participants: make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func TestGiveawayRegistryInsert(t *testing.T) {
	t.Parallel()

	registry := NewGiveawayRegistry()

	err := registry.Insert(newTestGiveaway("g1"))
	require.NoError(t, err)

	// Duplicate id is rejected
	err = registry.Insert(newTestGiveaway("g1"))
	assert.ErrorIs(t, err, entities.ErrGiveawayExists)

	got, err := registry.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", got.ID)
}

func TestGiveawayRegistryGetMissing(t *testing.T) {
	t.Parallel()

	registry := NewGiveawayRegistry()

	_, err := registry.Get("missing")
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)
}

func TestGiveawayRegistryRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	registry := NewGiveawayRegistry()
	require.NoError(t, registry.Insert(newTestGiveaway("g1")))

	registry.Remove("g1")
	registry.Remove("g1")
	registry.Remove("never-existed")

	_, err := registry.Get("g1")
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)
}

func TestGiveawayRegistryGetByMessage(t *testing.T) {
	t.Parallel()

	registry := NewGiveawayRegistry()
	require.NoError(t, registry.Insert(newTestGiveaway("g1")))
	require.NoError(t, registry.SetMessage("g1", 200, 555))

	got, err := registry.GetByMessage(200, 555)
	require.NoError(t, err)
	assert.Equal(t, "g1", got.ID)

	// Wrong channel does not match
	_, err = registry.GetByMessage(999, 555)
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)

	// Message index is cleared on removal
	registry.Remove("g1")
	_, err = registry.GetByMessage(200, 555)
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)
}

func TestGiveawayRegistryToggleParticipant(t *testing.T) {
	t.Parallel()

	registry := NewGiveawayRegistry()
	require.NoError(t, registry.Insert(newTestGiveaway("g1")))

	joined, count, err := registry.ToggleParticipant("g1", 42)
	require.NoError(t, err)
	assert.True(t, joined)
	assert.Equal(t, 1, count)

	// Toggling again returns the identity to its original state
	joined, count, err = registry.ToggleParticipant("g1", 42)
	require.NoError(t, err)
	assert.False(t, joined)
	assert.Equal(t, 0, count)

	_, _, err = registry.ToggleParticipant("missing", 42)
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)
}

func TestGiveawayRegistryConcurrentToggles(t *testing.T) {
	t.Parallel()

	registry := NewGiveawayRegistry()
	require.NoError(t, registry.Insert(newTestGiveaway("g1")))

	// 100 distinct users toggle concurrently; no update may be lost.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, _, err := registry.ToggleParticipant("g1", userID)
			assert.NoError(t, err)
		}(int64(i + 1))
	}
	wg.Wait()

	g, err := registry.Get("g1")
	require.NoError(t, err)
	assert.Len(t, g.Participants, 100)
}

func TestGiveawayRegistryTakeForClosureExactlyOnce(t *testing.T) {
	t.Parallel()

	registry := NewGiveawayRegistry()
	require.NoError(t, registry.Insert(newTestGiveaway("g1")))

	// Race natural expiry against an organizer stop: exactly one wins.
	var wg sync.WaitGroup
	wins := make(chan *entities.Giveaway, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g, err := registry.TakeForClosure("g1"); err == nil {
				wins <- g
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1)
	_, err := registry.Get("g1")
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)
}

func TestGiveawayRegistrySnapshotIsolation(t *testing.T) {
	t.Parallel()

	registry := NewGiveawayRegistry()
	for i := 0; i < 10; i++ {
		require.NoError(t, registry.Insert(newTestGiveaway(fmt.Sprintf("g%d", i))))
	}

	snapshot := registry.Snapshot()
	assert.Len(t, snapshot, 10)

	// Removing entries mid-iteration must not disturb the snapshot.
	for _, g := range snapshot {
		registry.Remove(g.ID)
	}
	assert.Len(t, snapshot, 10)
	assert.Empty(t, registry.Snapshot())
}

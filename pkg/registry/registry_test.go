package registry

import (
	"math/rand"
	"testing"

	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestAcquireRelease(t *testing.T) {
	r := New("clip.selected")
	id := types.ClipID(2, 3)

	assert.True(t, r.Acquire(id, "a"), "first consumer creates the key")
	assert.False(t, r.Acquire(id, "b"), "second consumer shares the key")
	assert.False(t, r.Acquire(id, "a"), "re-adding is a no-op")
	assert.True(t, r.IsActive(id))
	assert.Equal(t, []types.ConsumerID{"a", "b"}, r.Consumers(id))

	assert.False(t, r.Release(id, "a"))
	assert.True(t, r.IsActive(id))

	assert.True(t, r.Release(id, "b"), "last consumer removes the key")
	assert.False(t, r.IsActive(id))
	assert.Equal(t, 0, r.Len())
}

func TestReleaseUnknown(t *testing.T) {
	r := New("column.name")
	id := types.ColumnID(1)

	assert.False(t, r.Release(id, "nobody"))

	r.Acquire(id, "a")
	assert.False(t, r.Release(id, "b"), "unknown consumer is a no-op")
	assert.True(t, r.IsActive(id))
}

func TestKeys(t *testing.T) {
	r := New("deck.name")
	r.Acquire(types.DeckID(3), "x")
	r.Acquire(types.DeckID(1), "y")
	r.Acquire(types.DeckID(1), "z")

	assert.Equal(t, []types.EntityID{types.DeckID(1), types.DeckID(3)}, r.Keys())
}

// Presence must track the net set of distinct consumers, and the number of
// create/remove transitions reported must match exactly.
func TestRefcountProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	consumers := []types.ConsumerID{"a", "b", "c", "d"}
	id := types.ClipID(1, 1)

	r := New("clip.volume")
	held := make(map[types.ConsumerID]bool)
	subscribes, unsubscribes := 0, 0
	expectedUp, expectedDown := 0, 0

	for i := 0; i < 1000; i++ {
		c := consumers[rng.Intn(len(consumers))]
		before := len(held)
		if rng.Intn(2) == 0 {
			if r.Acquire(id, c) {
				subscribes++
			}
			held[c] = true
		} else {
			if r.Release(id, c) {
				unsubscribes++
			}
			delete(held, c)
		}
		after := len(held)
		if before == 0 && after == 1 {
			expectedUp++
		}
		if before > 0 && after == 0 {
			expectedDown++
		}
		assert.Equal(t, after > 0, r.IsActive(id))
	}

	assert.Equal(t, expectedUp, subscribes)
	assert.Equal(t, expectedDown, unsubscribes)
}

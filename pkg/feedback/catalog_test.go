package feedback

import (
	"testing"

	"github.com/cuemby/arenafeed/pkg/remote"
	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFullCatalog(h *harness) *Catalog {
	deps := h.deps()
	return NewCatalog(NewClipEngine(deps, nil), NewColumnEngine(deps), NewDeckEngine(deps))
}

func TestCatalogCategories(t *testing.T) {
	c := newFullCatalog(newHarness(nil))

	assert.Len(t, c.Categories(), 21)
	assert.Contains(t, c.Categories(), CategoryClipTransportPosition)

	kind, err := c.Kind(CategoryNextDeckName)
	require.NoError(t, err)
	assert.Equal(t, types.KindDeck, kind)

	assert.True(t, c.Global(CategorySelectedColumnName))
	assert.False(t, c.Global(CategoryColumnName))
	assert.False(t, c.Global("nope"))
}

func TestCatalogUnknownCategory(t *testing.T) {
	c := newFullCatalog(newHarness(nil))

	assert.ErrorIs(t, c.Subscribe("nope", "a", "1"), ErrUnknownCategory)
	assert.ErrorIs(t, c.Unsubscribe("nope", "a", "1"), ErrUnknownCategory)
	_, err := c.Compute("nope", "1", Options{})
	assert.ErrorIs(t, err, ErrUnknownCategory)
	_, err = c.Kind("nope")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCatalogRoutesToEngines(t *testing.T) {
	h := newHarness(testComposition(0))
	c := newFullCatalog(h)

	require.NoError(t, c.Subscribe(CategorySelectedClip, "a", "2,3"))
	require.NoError(t, c.Subscribe(CategoryColumnName, "a", "4"))
	require.NoError(t, c.Subscribe(CategoryDeckName, "a", "1"))
	require.NoError(t, c.Subscribe(CategoryClipVolume, "a", "1, 1"))

	assert.Equal(t, []string{
		"/composition/columns/4/name",
		"/composition/decks/1/name",
		"/composition/layers/2/clips/3/select",
	}, h.ledger.ActivePaths())
	assert.Equal(t, []int64{1015}, h.ledger.ActiveParams())

	require.NoError(t, c.Unsubscribe(CategoryColumnName, "a", "4"))
	assert.Len(t, h.ledger.ActivePaths(), 2)
}

func TestCatalogIgnoresInvalidIdentity(t *testing.T) {
	h := newHarness(testComposition(0))
	c := newFullCatalog(h)

	for _, params := range []string{"", "0", "x", "1,2", "-3"} {
		assert.NoError(t, c.Subscribe(CategoryColumnName, "a", params), params)
	}
	assert.NoError(t, c.Subscribe(CategorySelectedColumnName, "a", ""))
	assert.Equal(t, remote.Calls{}, h.ledger.Calls())

	res, err := c.Compute(CategoryColumnSelected, "0", Options{})
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

package feedback

import (
	"testing"

	"github.com/cuemby/arenafeed/pkg/remote"
	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newColumnHarness(t *testing.T) (*harness, *Engine, *Catalog) {
	t.Helper()
	h := newHarness(testComposition(0))
	e := NewColumnEngine(h.deps())
	e.Reload()
	h.notes.reset()
	h.ledger.ResetCalls()
	return h, e, NewCatalog(e)
}

func text(t *testing.T, c *Catalog, category, params string, opts Options) string {
	t.Helper()
	res, err := c.Compute(category, params, opts)
	require.NoError(t, err)
	return res.Text
}

func TestColumnReloadGlobals(t *testing.T) {
	_, e, _ := newColumnHarness(t)

	g := e.Globals()
	assert.Equal(t, types.ColumnID(2), g.Selected)
	assert.Equal(t, types.ColumnID(3), g.Connected)
	assert.Equal(t, 5, g.Last)
}

func TestColumnName(t *testing.T) {
	_, _, c := newColumnHarness(t)

	assert.Equal(t, "Column 5", text(t, c, CategoryColumnName, "5", Options{}))
	assert.Equal(t, "", text(t, c, CategoryColumnName, "9", Options{}))
}

func TestColumnSummaries(t *testing.T) {
	_, _, c := newColumnHarness(t)

	res, err := c.Compute(CategorySelectedColumnName, "", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Column 2", res.Text)
	assert.Equal(t, Cyan, *res.BgColor)
	assert.Equal(t, Black, *res.Color)

	res, _ = c.Compute(CategoryConnectedColumnName, "", Options{})
	assert.Equal(t, "Column 3", res.Text)
	assert.Equal(t, Green, *res.BgColor)

	assert.Equal(t, "Column 3", text(t, c, CategoryNextSelectedColumnName, "", Options{}))
	assert.Equal(t, "Column 5", text(t, c, CategoryPreviousSelectedColumnName, "", Options{Step: 2}))
	assert.Equal(t, "Column 1", text(t, c, CategoryNextConnectedColumnName, "", Options{Step: 3}))
	assert.Equal(t, "Column 1", text(t, c, CategoryPreviousConnectedColumnName, "", Options{Step: 2}))
}

func TestColumnSelectUpdatesGlobals(t *testing.T) {
	h, e, c := newColumnHarness(t)

	h.update(e, "/composition/columns/5/select", true)

	assert.Equal(t, types.ColumnID(5), e.Globals().Selected)
	v, _ := h.vars.Get("selectedColumn")
	assert.Equal(t, "5", v)
	assert.ElementsMatch(t, selectedColumnCategories, h.notes.dirty, "summaries are global")
	assert.Equal(t, "Column 1", text(t, c, CategoryNextSelectedColumnName, "", Options{Step: 1}))

	h.notes.reset()
	h.update(e, "/composition/columns/5/select", false)
	assert.Equal(t, types.ColumnID(5), e.Globals().Selected)
	assert.ElementsMatch(t, selectedColumnCategories, h.notes.dirty)
}

func TestColumnConnectUpdatesGlobals(t *testing.T) {
	h, e, c := newColumnHarness(t)
	e.Subscribe(ColumnConnected, types.ColumnID(4), "a")

	h.update(e, "/composition/columns/4/connect", StateConnected)

	assert.Equal(t, types.ColumnID(4), e.Globals().Connected)
	v, _ := h.vars.Get("connectedColumn")
	assert.Equal(t, "4", v)
	assert.ElementsMatch(t, append([]string{CategoryColumnConnected}, connectedColumnCategories...), h.notes.dirty)

	res, _ := c.Compute(CategoryColumnConnected, "4", Options{})
	assert.True(t, res.Active)

	h.update(e, "/composition/columns/1/connect", "Empty")
	assert.Equal(t, types.ColumnID(4), e.Globals().Connected)
}

func TestColumnReloadResetsGlobals(t *testing.T) {
	h, e, _ := newColumnHarness(t)

	h.update(e, "/composition/columns/5/select", true)
	h.update(e, "/composition/columns/1/connect", StateConnected)

	e.Reload()
	assert.Equal(t, types.ColumnID(2), e.Globals().Selected)
	assert.Equal(t, types.ColumnID(3), e.Globals().Connected)

	h.load(&types.Composition{})
	e.Reload()
	assert.Equal(t, Globals{}, e.Globals())
}

func TestColumnSubscribeByPath(t *testing.T) {
	h, e, _ := newColumnHarness(t)

	e.Subscribe(ColumnSelected, types.ColumnID(1), "a")
	e.Subscribe(ColumnName, types.ColumnID(1), "a")

	assert.Equal(t, []string{
		"/composition/columns/1/name",
		"/composition/columns/1/select",
	}, h.ledger.ActivePaths())
	assert.Equal(t, remote.Calls{SubscribePath: 2}, h.ledger.Calls())
}

func newDeckHarness(t *testing.T) (*harness, *Engine, *Catalog) {
	t.Helper()
	h := newHarness(testComposition(0))
	e := NewDeckEngine(h.deps())
	e.Reload()
	h.notes.reset()
	h.ledger.ResetCalls()
	return h, e, NewCatalog(e)
}

func TestDeckReloadGlobals(t *testing.T) {
	_, e, _ := newDeckHarness(t)

	g := e.Globals()
	assert.Equal(t, types.DeckID(2), g.Selected)
	assert.Equal(t, "Deck B", g.SelectedName)
	assert.Equal(t, 3, g.Last)
}

func TestDeckSummaries(t *testing.T) {
	_, _, c := newDeckHarness(t)

	res, _ := c.Compute(CategorySelectedDeckName, "", Options{})
	assert.Equal(t, "Deck B", res.Text)
	assert.Equal(t, Green, *res.BgColor)

	assert.Equal(t, "Deck C", text(t, c, CategoryNextDeckName, "", Options{}))
	assert.Equal(t, "Deck A", text(t, c, CategoryNextDeckName, "", Options{Step: 2}))
	assert.Equal(t, "Deck A", text(t, c, CategoryPreviousDeckName, "", Options{}))
	assert.Equal(t, "Deck C", text(t, c, CategoryPreviousDeckName, "", Options{Step: 2}))
}

func TestDeckSelect(t *testing.T) {
	h, e, c := newDeckHarness(t)
	e.Subscribe(DeckSelected, types.DeckID(3), "a")
	assert.Equal(t, []string{"/composition/decks/3/select"}, h.ledger.ActivePaths())

	h.update(e, "/composition/decks/3/select", true)

	assert.Equal(t, types.DeckID(3), e.Globals().Selected)
	deck, _ := h.vars.Get("selectedDeck")
	name, _ := h.vars.Get("selectedDeckName")
	assert.Equal(t, "3", deck)
	assert.Equal(t, "Deck C", name)
	assert.ElementsMatch(t, append([]string{CategoryDeckSelected}, deckSummaryCategories...), h.notes.dirty)

	res, _ := c.Compute(CategoryDeckSelected, "3", Options{})
	assert.True(t, res.Active)
	assert.Equal(t, "Deck C", text(t, c, CategorySelectedDeckName, "", Options{}))
}

func TestDeckSelectedNameFallsBackToSnapshotName(t *testing.T) {
	h := newHarness(nil)
	h.snap.Replace(testComposition(0))
	e := NewDeckEngine(h.deps())
	e.Reload()
	c := NewCatalog(e)

	h.params.Apply(types.Update{Path: "/composition/decks/2/name", Value: ""})
	assert.Equal(t, "Deck B", text(t, c, CategorySelectedDeckName, "", Options{}))
}

func TestDeckNameTemplated(t *testing.T) {
	h, e, c := newDeckHarness(t)
	h.update(e, "/composition/decks/1/name", "Deck #")
	assert.Equal(t, "Deck 1", text(t, c, CategoryDeckName, "1", Options{}))
}

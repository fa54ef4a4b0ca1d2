package feedback

import (
	"strconv"

	"github.com/cuemby/arenafeed/pkg/types"
)

// Deck signals
const (
	DeckSelected = "selected"
	DeckName     = "name"
)

// Deck categories
const (
	CategoryDeckSelected     = "deckSelected"
	CategoryDeckName         = "deckName"
	CategorySelectedDeckName = "selectedDeckName"
	CategoryNextDeckName     = "nextDeckName"
	CategoryPreviousDeckName = "previousDeckName"
)

var deckSummaryCategories = []string{
	CategorySelectedDeckName,
	CategoryNextDeckName,
	CategoryPreviousDeckName,
}

// NewDeckEngine creates the engine for decks
func NewDeckEngine(deps Deps) *Engine {
	return NewEngine(deckDescriptor(), deps)
}

func deckDescriptor() *Descriptor {
	return &Descriptor{
		Kind: types.KindDeck,
		Signals: []Signal{
			{Name: DeckSelected, Category: CategoryDeckSelected, Addressing: ByPath, Suffix: types.SuffixSelect},
			{Name: DeckName, Category: CategoryDeckName, Addressing: ByPath, Suffix: types.SuffixName},
		},
		Triggers: []Trigger{
			{Suffix: types.SuffixName, Signals: []string{DeckName}},
			{Suffix: types.SuffixSelect, Signals: []string{DeckSelected}, Hook: deckSelectHook},
		},
		Categories: []CategoryDef{
			{Name: CategoryDeckSelected, Signal: DeckSelected, Compute: computeDeckSelected},
			{Name: CategoryDeckName, Signal: DeckName, Compute: computeDeckName},
			{Name: CategorySelectedDeckName, Compute: computeSelectedDeckName},
			{Name: CategoryNextDeckName, Compute: relativeName(selectedEntity, Next)},
			{Name: CategoryPreviousDeckName, Compute: relativeName(selectedEntity, Previous)},
		},
		GlobalCategories: deckSummaryCategories,
		Enumerate: func(comp *types.Composition) []types.EntityID {
			ids := make([]types.EntityID, 0, len(comp.Decks))
			for i := range comp.Decks {
				ids = append(ids, types.DeckID(i+1))
			}
			return ids
		},
		Lookup: lookupDeck,
		Scan:   scanDecks,
	}
}

func lookupDeck(comp *types.Composition, id types.EntityID, suffix string) *types.Parameter {
	deck := comp.Deck(id.Index)
	if deck == nil {
		return nil
	}
	switch suffix {
	case types.SuffixSelect:
		return deck.Selected
	case types.SuffixName:
		return deck.Name
	}
	return nil
}

func scanDecks(e *Engine, comp *types.Composition) {
	for i, deck := range comp.Decks {
		id := types.DeckID(i + 1)
		if deck != nil && deck.Selected.Bool() {
			e.globals.Selected = id
			e.globals.SelectedName = deck.Name.String()
		}
		e.globals.Last = id.Index
	}
}

func deckSelectHook(e *Engine, id types.EntityID, _ types.Update) {
	// the cache already holds the update
	if e.param(id, types.SuffixSelect).Bool() {
		e.globals.Selected = id
		e.globals.SelectedName = e.param(id, types.SuffixName).String()
		e.deps.Variables.SetVariables(map[string]string{
			"selectedDeck":     strconv.Itoa(id.Index),
			"selectedDeckName": e.globals.SelectedName,
		})
	}
	e.deps.Notifier.MarkDirty(deckSummaryCategories...)
}

func computeDeckSelected(e *Engine, id types.EntityID, _ Options) Result {
	return Result{Active: e.param(id, types.SuffixSelect).Bool()}
}

func computeDeckName(e *Engine, id types.EntityID, _ Options) Result {
	p := e.param(id, types.SuffixName)
	if p == nil {
		return Result{}
	}
	return Result{Text: Template(p.String(), id.Index)}
}

func computeSelectedDeckName(e *Engine, _ types.EntityID, _ Options) Result {
	id := e.globals.Selected
	if !id.Valid() {
		return Result{}
	}
	name := e.param(id, types.SuffixName).String()
	if name == "" {
		name = e.globals.SelectedName
	}
	return Result{
		Text:    Template(name, id.Index),
		BgColor: colorPtr(Green),
		Color:   colorPtr(Black),
	}
}

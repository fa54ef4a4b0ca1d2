package feedback

import (
	"strconv"
	"strings"

	"github.com/cuemby/arenafeed/pkg/types"
)

// Column signals
const (
	ColumnSelected  = "selected"
	ColumnConnected = "connected"
	ColumnName      = "name"
)

// Column categories
const (
	CategoryColumnSelected              = "columnSelected"
	CategoryColumnConnected             = "columnConnected"
	CategoryColumnName                  = "columnName"
	CategorySelectedColumnName          = "selectedColumnName"
	CategoryNextSelectedColumnName      = "nextSelectedColumnName"
	CategoryPreviousSelectedColumnName  = "previousSelectedColumnName"
	CategoryConnectedColumnName         = "connectedColumnName"
	CategoryNextConnectedColumnName     = "nextConnectedColumnName"
	CategoryPreviousConnectedColumnName = "previousConnectedColumnName"
)

var (
	selectedColumnCategories = []string{
		CategorySelectedColumnName,
		CategoryNextSelectedColumnName,
		CategoryPreviousSelectedColumnName,
	}
	connectedColumnCategories = []string{
		CategoryConnectedColumnName,
		CategoryNextConnectedColumnName,
		CategoryPreviousConnectedColumnName,
	}
)

// NewColumnEngine creates the engine for columns
func NewColumnEngine(deps Deps) *Engine {
	return NewEngine(columnDescriptor(), deps)
}

func columnDescriptor() *Descriptor {
	return &Descriptor{
		Kind: types.KindColumn,
		Signals: []Signal{
			{Name: ColumnSelected, Category: CategoryColumnSelected, Addressing: ByPath, Suffix: types.SuffixSelect},
			{Name: ColumnConnected, Category: CategoryColumnConnected, Addressing: ByPath, Suffix: types.SuffixConnect},
			{Name: ColumnName, Category: CategoryColumnName, Addressing: ByPath, Suffix: types.SuffixName},
		},
		Triggers: []Trigger{
			{Suffix: types.SuffixName, Signals: []string{ColumnName}},
			{Suffix: types.SuffixConnect, Signals: []string{ColumnConnected}, Hook: columnConnectHook},
			{Suffix: types.SuffixSelect, Signals: []string{ColumnSelected}, Hook: columnSelectHook},
		},
		Categories: []CategoryDef{
			{Name: CategoryColumnSelected, Signal: ColumnSelected, Compute: computeColumnSelected},
			{Name: CategoryColumnConnected, Signal: ColumnConnected, Compute: computeColumnConnected},
			{Name: CategoryColumnName, Signal: ColumnName, Compute: computeColumnName},
			{Name: CategorySelectedColumnName, Compute: summaryName(selectedEntity, Cyan)},
			{Name: CategoryNextSelectedColumnName, Compute: relativeName(selectedEntity, Next)},
			{Name: CategoryPreviousSelectedColumnName, Compute: relativeName(selectedEntity, Previous)},
			{Name: CategoryConnectedColumnName, Compute: summaryName(connectedEntity, Green)},
			{Name: CategoryNextConnectedColumnName, Compute: relativeName(connectedEntity, Next)},
			{Name: CategoryPreviousConnectedColumnName, Compute: relativeName(connectedEntity, Previous)},
		},
		GlobalCategories: append(append([]string{}, selectedColumnCategories...), connectedColumnCategories...),
		Enumerate: func(comp *types.Composition) []types.EntityID {
			ids := make([]types.EntityID, 0, len(comp.Columns))
			for i := range comp.Columns {
				ids = append(ids, types.ColumnID(i+1))
			}
			return ids
		},
		Lookup: lookupColumn,
		Scan:   scanColumns,
	}
}

func lookupColumn(comp *types.Composition, id types.EntityID, suffix string) *types.Parameter {
	col := comp.Column(id.Index)
	if col == nil {
		return nil
	}
	switch suffix {
	case types.SuffixSelect:
		return col.Selected
	case types.SuffixConnect:
		return col.Connected
	case types.SuffixName:
		return col.Name
	}
	return nil
}

func scanColumns(e *Engine, comp *types.Composition) {
	for i, col := range comp.Columns {
		id := types.ColumnID(i + 1)
		if col != nil {
			if col.Selected.Bool() {
				e.globals.Selected = id
			}
			if col.Connected.String() == StateConnected {
				e.globals.Connected = id
			}
		}
		e.globals.Last = id.Index
	}
}

func columnSelectHook(e *Engine, id types.EntityID, update types.Update) {
	if types.AsBool(update.Value) {
		e.globals.Selected = id
		e.deps.Variables.SetVariables(map[string]string{"selectedColumn": strconv.Itoa(id.Index)})
	}
	// summaries depend on the global, not on the key
	e.deps.Notifier.MarkDirty(selectedColumnCategories...)
}

func columnConnectHook(e *Engine, id types.EntityID, update types.Update) {
	if strings.HasPrefix(types.AsString(update.Value), StateConnected) {
		e.globals.Connected = id
		e.deps.Variables.SetVariables(map[string]string{"connectedColumn": strconv.Itoa(id.Index)})
	}
	e.deps.Notifier.MarkDirty(connectedColumnCategories...)
}

func computeColumnSelected(e *Engine, id types.EntityID, _ Options) Result {
	return Result{Active: e.param(id, types.SuffixSelect).Bool()}
}

func computeColumnConnected(e *Engine, id types.EntityID, _ Options) Result {
	return Result{Active: e.param(id, types.SuffixConnect).String() == StateConnected}
}

func computeColumnName(e *Engine, id types.EntityID, _ Options) Result {
	p := e.param(id, types.SuffixName)
	if p == nil {
		return Result{}
	}
	return Result{Text: Template(p.String(), id.Index)}
}

func selectedEntity(g Globals) types.EntityID { return g.Selected }
func connectedEntity(g Globals) types.EntityID { return g.Connected }

// summaryName renders the name of the globally selected or connected entity
func summaryName(current func(Globals) types.EntityID, bg RGB) ComputeFunc {
	return func(e *Engine, _ types.EntityID, _ Options) Result {
		id := current(e.globals)
		if !id.Valid() {
			return Result{}
		}
		return Result{
			Text:    Template(e.param(id, types.SuffixName).String(), id.Index),
			BgColor: colorPtr(bg),
			Color:   colorPtr(Black),
		}
	}
}

// relativeName renders the name of the entity Options.Step positions away
// from the globally selected or connected one.
func relativeName(current func(Globals) types.EntityID, move func(current, step, last int) (int, bool)) ComputeFunc {
	return func(e *Engine, _ types.EntityID, opts Options) Result {
		index, ok := move(current(e.globals).Index, opts.step(), e.globals.Last)
		if !ok {
			return Result{}
		}
		target, ok := types.EntityFromIndices(e.desc.Kind, index)
		if !ok || !target.Valid() {
			return Result{}
		}
		name := e.param(target, types.SuffixName).String()
		if name == "" {
			return Result{}
		}
		return Result{Text: Template(name, index)}
	}
}

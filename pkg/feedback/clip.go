package feedback

import (
	"encoding/json"
	"strconv"

	"github.com/cuemby/arenafeed/pkg/types"
)

// Clip signals
const (
	ClipSelected  = "selected"
	ClipConnected = "connected"
	ClipDetails   = "details"
	ClipOpacity   = "opacity"
	ClipVolume    = "volume"
	ClipSpeed     = "speed"
	ClipPosition  = "position"
)

// Clip categories
const (
	CategorySelectedClip          = "selectedClip"
	CategoryConnectedClip         = "connectedClip"
	CategoryClipInfo              = "clipInfo"
	CategoryClipOpacity           = "clipOpacity"
	CategoryClipVolume            = "clipVolume"
	CategoryClipSpeed             = "clipSpeed"
	CategoryClipTransportPosition = "clipTransportPosition"
)

// DefaultLayerCategories are invalidated whenever the selected clip changes
var DefaultLayerCategories = []string{"layerSelected", "selectedLayerName", "layerActive"}

// NewClipEngine creates the engine for clips. layerCategories are the
// layer-scoped categories invalidated on clip selection; nil uses
// DefaultLayerCategories.
func NewClipEngine(deps Deps, layerCategories []string) *Engine {
	if layerCategories == nil {
		layerCategories = DefaultLayerCategories
	}
	return NewEngine(clipDescriptor(layerCategories), deps)
}

func clipDescriptor(layerCategories []string) *Descriptor {
	return &Descriptor{
		Kind: types.KindClip,
		Signals: []Signal{
			{Name: ClipSelected, Category: CategorySelectedClip, Addressing: ByPath, Suffix: types.SuffixSelect},
			{Name: ClipConnected, Category: CategoryConnectedClip, Addressing: ByPath, Suffix: types.SuffixConnect},
			{Name: ClipDetails, Category: CategoryClipInfo, Addressing: ByPath, Suffix: types.SuffixName},
			{Name: ClipOpacity, Category: CategoryClipOpacity, Addressing: ByParam, Suffix: types.SuffixOpacity},
			{Name: ClipVolume, Category: CategoryClipVolume, Addressing: ByParam, Suffix: types.SuffixVolume},
			{Name: ClipSpeed, Category: CategoryClipSpeed, Addressing: ByParam, Suffix: types.SuffixSpeed},
			{Name: ClipPosition, Category: CategoryClipTransportPosition, Addressing: ByParam, Suffix: types.SuffixPosition},
		},
		Triggers: []Trigger{
			{Suffix: types.SuffixConnect, Signals: []string{ClipConnected}, Hook: clipConnectHook},
			{Suffix: types.SuffixSelect, Signals: []string{ClipSelected, ClipConnected}, Hook: clipSelectHook(layerCategories)},
			{Suffix: types.SuffixName, Signals: []string{ClipDetails}},
			{Suffix: types.SuffixSpeed, Signals: []string{ClipSpeed}},
			{Suffix: types.SuffixOpacity, Signals: []string{ClipOpacity}},
			{Suffix: types.SuffixVolume, Signals: []string{ClipVolume}},
			{Suffix: types.SuffixPosition, Signals: []string{ClipPosition}},
		},
		Categories: []CategoryDef{
			{Name: CategorySelectedClip, Signal: ClipSelected, Compute: computeClipSelected},
			{Name: CategoryConnectedClip, Signal: ClipConnected, Compute: computeClipConnected},
			{Name: CategoryClipInfo, Signal: ClipDetails, Compute: computeClipInfo},
			{Name: CategoryClipOpacity, Signal: ClipOpacity, Compute: computeClipLevel(types.SuffixOpacity, percentResult)},
			{Name: CategoryClipVolume, Signal: ClipVolume, Compute: computeClipLevel(types.SuffixVolume, volumeResult)},
			{Name: CategoryClipSpeed, Signal: ClipSpeed, Compute: computeClipLevel(types.SuffixSpeed, percentResult)},
			{Name: CategoryClipTransportPosition, Signal: ClipPosition, Compute: computeClipPosition},
		},
		Enumerate: func(comp *types.Composition) []types.EntityID {
			return comp.ClipIDs()
		},
		Lookup:   lookupClip,
		Scan:     scanClips,
		Acquired: clipAcquired,
		Reloaded: clipReloaded,
	}
}

func lookupClip(comp *types.Composition, id types.EntityID, suffix string) *types.Parameter {
	clip := comp.Clip(id.Layer, id.Index)
	if clip == nil {
		return nil
	}
	switch suffix {
	case types.SuffixSelect:
		return clip.Selected
	case types.SuffixConnect:
		return clip.Connected
	case types.SuffixName:
		return clip.Name
	case types.SuffixOpacity:
		return clip.OpacityParam()
	case types.SuffixVolume:
		return clip.VolumeParam()
	case types.SuffixSpeed:
		return clip.SpeedParam()
	case types.SuffixPosition:
		return clip.PositionParam()
	}
	return nil
}

// the last flagged clip in layer-major order wins
func scanClips(e *Engine, comp *types.Composition) {
	for _, id := range comp.ClipIDs() {
		clip := comp.Clip(id.Layer, id.Index)
		if clip == nil {
			continue
		}
		if clip.Selected.Bool() {
			e.globals.Selected = id
			e.globals.SelectedName = clip.Name.String()
		}
		state := clip.Connected.String()
		if state == StateConnected {
			e.globals.Connected = id
		}
		if IsPreview(state) {
			e.globals.Previewed = id
		}
	}
}

type clipRecord struct {
	Layer    int    `json:"layer"`
	Column   int    `json:"column"`
	ClipName string `json:"clipName"`
}

func clipVariables(prefix string, id types.EntityID, name string) map[string]string {
	record, _ := json.Marshal(clipRecord{Layer: id.Layer, Column: id.Index, ClipName: name})
	return map[string]string{
		prefix:            string(record),
		prefix + "Layer":  strconv.Itoa(id.Layer),
		prefix + "Column": strconv.Itoa(id.Index),
		prefix + "Name":   name,
	}
}

func clipSelectHook(layerCategories []string) Hook {
	return func(e *Engine, id types.EntityID, update types.Update) {
		if !types.AsBool(update.Value) {
			return
		}
		name := e.param(id, types.SuffixName).String()
		e.globals.Selected = id
		e.globals.SelectedName = name
		e.deps.Variables.SetVariables(clipVariables("selectedClip", id, name))

		e.markDirtyIfObserved(ClipConnected)
		if len(layerCategories) > 0 {
			e.deps.Notifier.MarkDirty(layerCategories...)
		}
	}
}

func clipConnectHook(e *Engine, id types.EntityID, update types.Update) {
	state := types.AsString(update.Value)
	if state == StateConnected {
		e.globals.Connected = id
	}
	if !IsPreview(state) {
		return
	}
	e.globals.Previewed = id
	name := e.param(id, types.SuffixName).String()
	e.deps.Variables.SetVariables(clipVariables("previewedClip", id, name))

	// previewing is composition-wide, so every connected clip may change
	e.markDirtyIfObserved(ClipConnected)
}

func clipAcquired(e *Engine, signal string, id types.EntityID) {
	if signal == ClipDetails {
		e.requestThumb(id)
	}
}

func clipReloaded(e *Engine) {
	for _, id := range e.registries[ClipDetails].Keys() {
		e.requestThumb(id)
	}
}

func (e *Engine) requestThumb(id types.EntityID) {
	if e.deps.Thumbs == nil {
		return
	}
	e.deps.Thumbs.Request(id, func() {
		e.recheck(ClipDetails, id)
	})
}

func computeClipSelected(e *Engine, id types.EntityID, _ Options) Result {
	return Result{Active: e.param(id, types.SuffixSelect).Bool()}
}

func computeClipConnected(e *Engine, id types.EntityID, opts Options) Result {
	state := e.param(id, types.SuffixConnect).String()
	selected := e.param(id, types.SuffixSelect).Bool()
	return Result{BgColor: colorPtr(ConnectionColor(state, selected, opts.colors()))}
}

func computeClipInfo(e *Engine, id types.EntityID, opts Options) Result {
	var res Result
	if opts.ShowName {
		res.Text = e.param(id, types.SuffixName).String()
	}
	if opts.ShowText {
		res.Text = e.deps.Snapshot.Composition().Clip(id.Layer, id.Index).SourceText().String()
	}
	if opts.ShowThumb {
		res.PNG64 = e.deps.Thumbs.Base64(id)
	}
	return res
}

func computeClipLevel(suffix string, format func(float64, bool) Result) ComputeFunc {
	return func(e *Engine, id types.EntityID, _ Options) Result {
		return format(e.param(id, suffix).Float())
	}
}

func computeClipPosition(e *Engine, id types.EntityID, opts Options) Result {
	p := e.param(id, types.SuffixPosition)
	value, ok := p.Float()
	if !ok || p.Max == nil || opts.View == "" {
		return Result{Text: Placeholder}
	}
	return NewTimecode(value, *p.Max, opts.CountDown).View(opts.View)
}

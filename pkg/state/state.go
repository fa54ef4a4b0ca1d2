package state

import (
	"sync"

	"github.com/cuemby/arenafeed/pkg/types"
)

// Snapshot holds the current composition. It is replaced wholesale on reload.
type Snapshot struct {
	mu         sync.RWMutex
	comp       *types.Composition
	generation uint64
}

// NewSnapshot creates an empty holder
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Composition returns the current composition, or nil before the first load
func (s *Snapshot) Composition() *types.Composition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comp
}

// Generation returns the number of compositions loaded so far
func (s *Snapshot) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Replace discards the current composition and installs comp
func (s *Snapshot) Replace(comp *types.Composition) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comp = comp
	s.generation++
	return s.generation
}

// Parameters is a flat cache of the last known value per symbolic path
type Parameters struct {
	mu     sync.RWMutex
	values map[string]types.Parameter
}

// NewParameters creates an empty cache
func NewParameters() *Parameters {
	return &Parameters{values: make(map[string]types.Parameter)}
}

// Get returns the cached parameter at path
func (p *Parameters) Get(path string) (types.Parameter, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[path]
	return v, ok
}

// Apply records an inbound update. Range bounds from an earlier update are
// kept when the new update omits them.
func (p *Parameters) Apply(update types.Update) {
	p.mu.Lock()
	defer p.mu.Unlock()

	param := update.Parameter()
	if prev, ok := p.values[update.Path]; ok {
		if param.Min == nil {
			param.Min = prev.Min
		}
		if param.Max == nil {
			param.Max = prev.Max
		}
		if param.ID == 0 {
			param.ID = prev.ID
		}
	}
	p.values[update.Path] = param
}

// Len returns the number of cached paths
func (p *Parameters) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.values)
}

// Load replaces the cache with every tracked value of comp
func (p *Parameters) Load(comp *types.Composition) {
	values := make(map[string]types.Parameter)
	put := func(path string, param *types.Parameter) {
		if param != nil {
			values[path] = *param
		}
	}

	if comp != nil {
		for _, id := range comp.ClipIDs() {
			clip := comp.Clip(id.Layer, id.Index)
			if clip == nil {
				continue
			}
			put(id.Path(types.SuffixName), clip.Name)
			put(id.Path(types.SuffixSelect), clip.Selected)
			put(id.Path(types.SuffixConnect), clip.Connected)
			put(id.Path(types.SuffixOpacity), clip.OpacityParam())
			put(id.Path(types.SuffixVolume), clip.VolumeParam())
			put(id.Path(types.SuffixSpeed), clip.SpeedParam())
			put(id.Path(types.SuffixPosition), clip.PositionParam())
		}
		for i, col := range comp.Columns {
			if col == nil {
				continue
			}
			id := types.ColumnID(i + 1)
			put(id.Path(types.SuffixName), col.Name)
			put(id.Path(types.SuffixSelect), col.Selected)
			put(id.Path(types.SuffixConnect), col.Connected)
		}
		for i, deck := range comp.Decks {
			if deck == nil {
				continue
			}
			id := types.DeckID(i + 1)
			put(id.Path(types.SuffixName), deck.Name)
			put(id.Path(types.SuffixSelect), deck.Selected)
		}
	}

	p.mu.Lock()
	p.values = values
	p.mu.Unlock()
}

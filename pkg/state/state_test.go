package state

import (
	"testing"

	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestSnapshotReplace(t *testing.T) {
	s := NewSnapshot()
	assert.Nil(t, s.Composition())
	assert.Zero(t, s.Generation())

	first := &types.Composition{}
	assert.Equal(t, uint64(1), s.Replace(first))
	assert.Same(t, first, s.Composition())

	second := &types.Composition{}
	assert.Equal(t, uint64(2), s.Replace(second))
	assert.Same(t, second, s.Composition())
}

func TestParametersApplyKeepsBounds(t *testing.T) {
	p := NewParameters()
	path := types.ClipID(1, 1).Path(types.SuffixPosition)

	p.Apply(types.Update{Path: path, ID: 5, Value: 10.0, Max: ptr(1000)})
	p.Apply(types.Update{Path: path, Value: 20.0})

	got, ok := p.Get(path)
	require.True(t, ok)
	assert.Equal(t, 20.0, got.Value)
	require.NotNil(t, got.Max)
	assert.Equal(t, 1000.0, *got.Max)
	assert.Equal(t, int64(5), got.ID)
}

func TestParametersLoad(t *testing.T) {
	p := NewParameters()
	p.Apply(types.Update{Path: "/composition/columns/9/name", Value: "stale"})

	comp := &types.Composition{
		Layers: []*types.Layer{{Clips: []*types.Clip{{
			Name:     &types.Parameter{Value: "Intro"},
			Selected: &types.Parameter{Value: true},
			Video:    &types.ClipVideo{Opacity: &types.Parameter{ID: 100, Value: 0.5}},
		}}}},
		Columns: []*types.Column{{Name: &types.Parameter{Value: "Column #"}}},
		Decks:   []*types.Deck{{Name: &types.Parameter{Value: "Main"}}},
	}
	p.Load(comp)

	_, ok := p.Get("/composition/columns/9/name")
	assert.False(t, ok, "load replaces the cache")

	name, ok := p.Get("/composition/layers/1/clips/1/name")
	require.True(t, ok)
	assert.Equal(t, "Intro", name.Value)

	opacity, ok := p.Get("/composition/layers/1/clips/1/video/opacity")
	require.True(t, ok)
	assert.Equal(t, int64(100), opacity.ID)

	col, ok := p.Get("/composition/columns/1/name")
	require.True(t, ok)
	assert.Equal(t, "Column #", col.Value)

	deck, ok := p.Get("/composition/decks/1/name")
	require.True(t, ok)
	assert.Equal(t, "Main", deck.Value)

	assert.Equal(t, 5, p.Len())
}

package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidEntityID is returned when an identity string cannot be decoded
var ErrInvalidEntityID = errors.New("invalid entity id")

// Kind is the kind of an addressable entity
type Kind string

const (
	KindClip   Kind = "clip"
	KindColumn Kind = "column"
	KindDeck   Kind = "deck"
)

// EntityID identifies one entity of the composition.
// Layer is only used by clips; Index is the column for clips and columns
// and the deck number for decks. All indices are 1-based.
type EntityID struct {
	Kind  Kind
	Layer int
	Index int
}

// ClipID returns the identity of the clip at layer/column
func ClipID(layer, column int) EntityID {
	return EntityID{Kind: KindClip, Layer: layer, Index: column}
}

// ColumnID returns the identity of a column
func ColumnID(column int) EntityID {
	return EntityID{Kind: KindColumn, Index: column}
}

// DeckID returns the identity of a deck
func DeckID(deck int) EntityID {
	return EntityID{Kind: KindDeck, Index: deck}
}

// EntityFromIndices builds an identity of kind from its ordered components
func EntityFromIndices(kind Kind, indices ...int) (EntityID, bool) {
	switch kind {
	case KindClip:
		if len(indices) != 2 {
			return EntityID{}, false
		}
		return ClipID(indices[0], indices[1]), true
	case KindColumn:
		if len(indices) != 1 {
			return EntityID{}, false
		}
		return ColumnID(indices[0]), true
	case KindDeck:
		if len(indices) != 1 {
			return EntityID{}, false
		}
		return DeckID(indices[0]), true
	}
	return EntityID{}, false
}

// Indices returns the ordered components of the identity
func (id EntityID) Indices() []int {
	if id.Kind == KindClip {
		return []int{id.Layer, id.Index}
	}
	return []int{id.Index}
}

// Valid reports whether every component is strictly positive
func (id EntityID) Valid() bool {
	switch id.Kind {
	case KindClip:
		return id.Layer > 0 && id.Index > 0
	case KindColumn, KindDeck:
		return id.Layer == 0 && id.Index > 0
	}
	return false
}

// Column returns the column of a clip or column identity
func (id EntityID) Column() int {
	return id.Index
}

// String returns the canonical key, e.g. "clip:2:3", "column:5", "deck:1"
func (id EntityID) String() string {
	var b strings.Builder
	b.WriteString(string(id.Kind))
	for _, i := range id.Indices() {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// ParseEntityID decodes the canonical key produced by EntityID.String
func ParseEntityID(s string) (EntityID, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return EntityID{}, fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
	}
	indices := make([]int, 0, len(parts)-1)
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return EntityID{}, fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
		}
		indices = append(indices, n)
	}
	id, ok := EntityFromIndices(Kind(parts[0]), indices...)
	if !ok {
		return EntityID{}, fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
	}
	return id, nil
}

// ParseParams decodes user supplied identity parameters such as "2,3" or "5"
// for the given kind.
func ParseParams(kind Kind, s string) (EntityID, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '/' || r == ' ' })
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return EntityID{}, fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
		}
		indices = append(indices, n)
	}
	id, ok := EntityFromIndices(kind, indices...)
	if !ok {
		return EntityID{}, fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
	}
	return id, nil
}

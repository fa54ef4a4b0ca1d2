/*
Package types defines the core data structures used throughout arenafeed.

This package contains the composition snapshot model (layers, clips, columns,
decks and their parameters), inbound parameter updates, and the canonical
entity identity used as a key by every registry and cache.

# Architecture

The composition is received from the remote server as one JSON document and is
replaced wholesale on every reload. Its slices are 0-based, while every public
identity (clip 2/3, column 5, deck 1) is 1-based. The accessors on Composition
(Clip, Column, Deck) perform that conversion so callers never index the slices
directly:

	Composition
	  ├── Layers[0..n)   ── Clips[0..m)   → ClipID(layer+1, column+1)
	  ├── Columns[0..n)                   → ColumnID(column+1)
	  └── Decks[0..n)                     → DeckID(deck+1)

# Entity identity

EntityID is a small comparable value. Its canonical string form is used as a
map key by the subscription registries and the thumbnail store:

	ClipID(2, 3).String()   // "clip:2:3"
	ColumnID(5).String()    // "column:5"
	DeckID(1).String()      // "deck:1"

ParseEntityID reverses String. An identity is valid only when every component
is strictly positive; invalid identities are ignored by the feedback engines
rather than rejected with an error.

# Parameter values

Parameter.Value holds whatever JSON decoded: bool, float64 or string. Use the
AsFloat, AsBool and AsString helpers instead of type assertions so numeric and
string forms are handled in one place.
*/
package types

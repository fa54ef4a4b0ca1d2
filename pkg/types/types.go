package types

import (
	"math"
	"strconv"
)

// ConsumerID names one registered feedback consumer
type ConsumerID string

// Composition is a full snapshot of the remote composition.
// Slices are 0-based; public identities are 1-based.
type Composition struct {
	Name    *Parameter `json:"name,omitempty"`
	Layers  []*Layer   `json:"layers"`
	Columns []*Column  `json:"columns"`
	Decks   []*Deck    `json:"decks"`
}

// Layer holds an ordered row of clips
type Layer struct {
	ID    int64      `json:"id"`
	Name  *Parameter `json:"name,omitempty"`
	Clips []*Clip    `json:"clips"`
}

// Clip is one cell of the layer/column grid
type Clip struct {
	ID        int64      `json:"id"`
	Name      *Parameter `json:"name,omitempty"`
	Selected  *Parameter `json:"selected,omitempty"`
	Connected *Parameter `json:"connected,omitempty"`
	Video     *ClipVideo `json:"video,omitempty"`
	Audio     *ClipAudio `json:"audio,omitempty"`
	Transport *Transport `json:"transport,omitempty"`
}

// ClipVideo holds the video parameters of a clip
type ClipVideo struct {
	Opacity      *Parameter            `json:"opacity,omitempty"`
	SourceParams map[string]*Parameter `json:"sourceparams,omitempty"`
}

// ClipAudio holds the audio parameters of a clip
type ClipAudio struct {
	Volume *Parameter `json:"volume,omitempty"`
}

// Transport holds the playback parameters of a clip
type Transport struct {
	Position *Parameter         `json:"position,omitempty"`
	Controls *TransportControls `json:"controls,omitempty"`
}

// TransportControls holds the playback controls of a clip
type TransportControls struct {
	Speed *Parameter `json:"speed,omitempty"`
}

// Column is a vertical trigger group
type Column struct {
	ID        int64      `json:"id"`
	Name      *Parameter `json:"name,omitempty"`
	Selected  *Parameter `json:"selected,omitempty"`
	Connected *Parameter `json:"connected,omitempty"`
}

// Deck is a named page of the composition
type Deck struct {
	ID       int64      `json:"id"`
	Name     *Parameter `json:"name,omitempty"`
	Selected *Parameter `json:"selected,omitempty"`
}

// Parameter is one addressable scalar of the composition.
// Value is a bool, float64 or string as decoded from JSON.
type Parameter struct {
	ID    int64    `json:"id"`
	Value any      `json:"value"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// Update is an inbound change of one parameter
type Update struct {
	Path  string   `json:"path"`
	ID    int64    `json:"id,omitempty"`
	Value any      `json:"value"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// Parameter returns the cached form of the update
func (u Update) Parameter() Parameter {
	return Parameter{ID: u.ID, Value: u.Value, Min: u.Min, Max: u.Max}
}

// ParamID returns the id of p, or 0 when p is nil
func ParamID(p *Parameter) int64 {
	if p == nil {
		return 0
	}
	return p.ID
}

// Float returns the numeric value of p
func (p *Parameter) Float() (float64, bool) {
	if p == nil {
		return 0, false
	}
	return AsFloat(p.Value)
}

// Bool returns the boolean value of p
func (p *Parameter) Bool() bool {
	if p == nil {
		return false
	}
	return AsBool(p.Value)
}

// String returns the string value of p
func (p *Parameter) String() string {
	if p == nil {
		return ""
	}
	return AsString(p.Value)
}

// AsFloat converts a decoded JSON scalar to float64
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// AsBool reports whether v is a truthy scalar
func AsBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case string:
		return b != ""
	}
	return false
}

// AsString converts a decoded JSON scalar to its display string
func AsString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return ""
}

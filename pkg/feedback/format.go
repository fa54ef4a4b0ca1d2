package feedback

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Placeholder is shown when a value is not available yet
const Placeholder = "?"

// RGB is a display color
type RGB struct {
	R, G, B uint8
}

// Rgb builds a color
func Rgb(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// Int packs the color as 0xRRGGBB
func (c RGB) Int() int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	Black  = Rgb(0, 0, 0)
	Green  = Rgb(0, 255, 0)
	Cyan   = Rgb(0, 255, 255)
	Orange = Rgb(255, 165, 0)
	Yellow = Rgb(255, 255, 0)
)

// IndicatorKind selects how a level is rendered by the presentation layer
type IndicatorKind string

const (
	IndicatorPercentage IndicatorKind = "percentage"
	IndicatorVolume     IndicatorKind = "volume"
)

// Indicator is a level bar drawn next to the text
type Indicator struct {
	Kind  IndicatorKind `json:"kind"`
	Level float64       `json:"level"`
}

// Result is the display value of one feedback consumer
type Result struct {
	Text      string     `json:"text,omitempty"`
	Color     *RGB       `json:"color,omitempty"`
	BgColor   *RGB       `json:"bgcolor,omitempty"`
	Size      int        `json:"size,omitempty"`
	Active    bool       `json:"active,omitempty"`
	Indicator *Indicator `json:"indicator,omitempty"`
	PNG64     string     `json:"png64,omitempty"`
}

// ConnectionColors are the backgrounds used for clip connection states
type ConnectionColors struct {
	ConnectedSelected RGB
	Connected         RGB
	ConnectedPreview  RGB
	Preview           RGB
	Off               RGB
}

// DefaultConnectionColors returns the stock connection palette
func DefaultConnectionColors() ConnectionColors {
	return ConnectionColors{
		ConnectedSelected: Cyan,
		Connected:         Green,
		ConnectedPreview:  Orange,
		Preview:           Yellow,
		Off:               Black,
	}
}

// Connection states reported by the remote composition
const (
	StateConnected           = "Connected"
	StateConnectedPreviewing = "Connected & previewing"
	StatePreviewing          = "Previewing"
)

// ConnectionColor maps a connection state and the selected flag to a
// background, first match wins.
func ConnectionColor(state string, selected bool, colors ConnectionColors) RGB {
	switch {
	case state == StateConnected && selected:
		return colors.ConnectedSelected
	case state == StateConnected:
		return colors.Connected
	case state == StateConnectedPreviewing:
		return colors.ConnectedPreview
	case state == StatePreviewing:
		return colors.Preview
	}
	return colors.Off
}

// IsPreview reports whether a connection state includes previewing
func IsPreview(state string) bool {
	return strings.Contains(strings.ToLower(state), "preview")
}

// Round rounds half up, so -0.5 becomes 0 and 0.5 becomes 1
func Round(v float64) float64 {
	r := math.Floor(v + 0.5)
	if r == 0 {
		return 0 // no negative zero
	}
	return r
}

// Percent formats a normalized value, e.g. 0.756 -> "76%"
func Percent(v float64) string {
	return strconv.FormatFloat(Round(v*100), 'f', -1, 64) + "%"
}

// Volume formats a volume with two decimals at most, e.g. -6.456 -> "-6.46db"
func Volume(v float64) string {
	return strconv.FormatFloat(Round(v*100)/100, 'f', -1, 64) + "db"
}

// Template replaces the first "#" in name with the entity index
func Template(name string, index int) string {
	return strings.Replace(name, "#", strconv.Itoa(index), 1)
}

func percentResult(v float64, ok bool) Result {
	if !ok {
		return Result{Text: Placeholder}
	}
	return Result{
		Text:      Percent(v),
		Indicator: &Indicator{Kind: IndicatorPercentage, Level: v},
	}
}

func volumeResult(v float64, ok bool) Result {
	if !ok {
		return Result{Text: Placeholder}
	}
	return Result{
		Text:      Volume(v),
		Indicator: &Indicator{Kind: IndicatorVolume, Level: v},
	}
}

func colorPtr(c RGB) *RGB {
	return &c
}

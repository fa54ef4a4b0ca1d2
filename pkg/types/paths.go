package types

import "strconv"

// Path suffixes of the signals tracked per entity
const (
	SuffixSelect   = "select"
	SuffixConnect  = "connect"
	SuffixName     = "name"
	SuffixOpacity  = "video/opacity"
	SuffixVolume   = "audio/volume"
	SuffixSpeed    = "transport/position/behaviour/speed"
	SuffixPosition = "transport/position"
)

// Path returns the symbolic path of a signal of id, e.g.
// "/composition/layers/2/clips/3/select".
func (id EntityID) Path(suffix string) string {
	switch id.Kind {
	case KindClip:
		return "/composition/layers/" + strconv.Itoa(id.Layer) +
			"/clips/" + strconv.Itoa(id.Index) + "/" + suffix
	case KindColumn:
		return "/composition/columns/" + strconv.Itoa(id.Index) + "/" + suffix
	case KindDeck:
		return "/composition/decks/" + strconv.Itoa(id.Index) + "/" + suffix
	}
	return ""
}

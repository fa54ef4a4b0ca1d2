package types

// Clip returns the clip at the 1-based layer/column, or nil
func (c *Composition) Clip(layer, column int) *Clip {
	if c == nil || layer < 1 || layer > len(c.Layers) {
		return nil
	}
	l := c.Layers[layer-1]
	if l == nil || column < 1 || column > len(l.Clips) {
		return nil
	}
	return l.Clips[column-1]
}

// Column returns the 1-based column, or nil
func (c *Composition) Column(column int) *Column {
	if c == nil || column < 1 || column > len(c.Columns) {
		return nil
	}
	return c.Columns[column-1]
}

// Deck returns the 1-based deck, or nil
func (c *Composition) Deck(deck int) *Deck {
	if c == nil || deck < 1 || deck > len(c.Decks) {
		return nil
	}
	return c.Decks[deck-1]
}

// ClipIDs returns every clip identity in layer-major traversal order
func (c *Composition) ClipIDs() []EntityID {
	if c == nil {
		return nil
	}
	var ids []EntityID
	for li, l := range c.Layers {
		if l == nil {
			continue
		}
		for ci := range l.Clips {
			ids = append(ids, ClipID(li+1, ci+1))
		}
	}
	return ids
}

// OpacityParam returns the opacity parameter of a clip
func (c *Clip) OpacityParam() *Parameter {
	if c == nil || c.Video == nil {
		return nil
	}
	return c.Video.Opacity
}

// VolumeParam returns the volume parameter of a clip
func (c *Clip) VolumeParam() *Parameter {
	if c == nil || c.Audio == nil {
		return nil
	}
	return c.Audio.Volume
}

// SpeedParam returns the playback speed parameter of a clip
func (c *Clip) SpeedParam() *Parameter {
	if c == nil || c.Transport == nil || c.Transport.Controls == nil {
		return nil
	}
	return c.Transport.Controls.Speed
}

// PositionParam returns the transport position parameter of a clip
func (c *Clip) PositionParam() *Parameter {
	if c == nil || c.Transport == nil {
		return nil
	}
	return c.Transport.Position
}

// SourceText returns the text source parameter of a text generator clip
func (c *Clip) SourceText() *Parameter {
	if c == nil || c.Video == nil || c.Video.SourceParams == nil {
		return nil
	}
	return c.Video.SourceParams["Text"]
}

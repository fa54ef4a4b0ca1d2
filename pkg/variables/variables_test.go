package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	s := NewStore()

	var changes []string
	s.OnChange(func(name, value string) {
		changes = append(changes, name+"="+value)
	})

	s.SetVariables(map[string]string{"selectedColumn": "2", "connectedColumn": "1"})
	s.SetVariables(map[string]string{"selectedColumn": "2"})
	s.SetVariables(map[string]string{"selectedColumn": "3"})

	v, ok := s.Get("selectedColumn")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = s.Get("selectedDeck")
	assert.False(t, ok)

	assert.Equal(t, []string{"connectedColumn=1", "selectedColumn=2", "selectedColumn=3"}, changes)
	assert.Equal(t, map[string]string{"selectedColumn": "3", "connectedColumn": "1"}, s.Snapshot())
}

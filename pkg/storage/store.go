package storage

import (
	"errors"

	"github.com/cuemby/arenafeed/pkg/types"
)

// ErrThumbNotFound is returned when no thumbnail is cached for an entity
var ErrThumbNotFound = errors.New("thumbnail not found")

// Store defines the interface for the local byte cache
type Store interface {
	// Thumbnails
	PutThumb(id types.EntityID, data []byte) error
	GetThumb(id types.EntityID) ([]byte, error)
	DeleteThumb(id types.EntityID) error
	ListThumbs() ([]types.EntityID, error)

	// Output variables
	SaveVariables(values map[string]string) error
	LoadVariables() (map[string]string, error)

	// Utility
	Close() error
}

package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cuemby/arenafeed/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketThumbs    = []byte("thumbs")
	bucketVariables = []byte("variables")

	keyVariables = []byte("current")
)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "arenafeed.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketThumbs, bucketVariables} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// PutThumb replaces the thumbnail of id in a single key assignment
func (s *BoltStore) PutThumb(id types.EntityID, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketThumbs).Put([]byte(id.String()), data)
	})
}

func (s *BoltStore) GetThumb(id types.EntityID) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketThumbs).Get([]byte(id.String()))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrThumbNotFound, id)
		}
		// bbolt values are only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

func (s *BoltStore) DeleteThumb(id types.EntityID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketThumbs).Delete([]byte(id.String()))
	})
}

func (s *BoltStore) ListThumbs() ([]types.EntityID, error) {
	var ids []types.EntityID
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketThumbs).ForEach(func(k, _ []byte) error {
			id, err := types.ParseEntityID(string(k))
			if err != nil {
				return err
			}
			ids = append(ids, id)
			return nil
		})
	})
	return ids, err
}

func (s *BoltStore) SaveVariables(values map[string]string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(values)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketVariables).Put(keyVariables, data)
	})
}

func (s *BoltStore) LoadVariables() (map[string]string, error) {
	values := make(map[string]string)
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketVariables).Get(keyVariables)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &values)
	})
	return values, err
}

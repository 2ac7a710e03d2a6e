package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketMTimes = []byte("mtimes")

// MTimeStore is a persistent mod-time index. It serves timestamp lookups
// for results whose backing files are not reachable at refine time, as an
// alternative to live stat calls. The refinement pipeline only reads it;
// writes happen in the index command.
type MTimeStore struct {
	db *bbolt.DB
}

// NewMTimeStore opens (creating if needed) the index at path.
func NewMTimeStore(path string) (*MTimeStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketMTimes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &MTimeStore{db: db}, nil
}

type mtimeMeta struct {
	ModTime int64 `json:"mod_time"`
}

// Put records the mod time for one path.
func (s *MTimeStore) Put(path string, t time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(mtimeMeta{ModTime: t.Unix()})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMTimes).Put([]byte(path), data)
	})
}

// PutBatch records mod times for many paths in one transaction.
func (s *MTimeStore) PutBatch(mtimes map[string]time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMTimes)
		for path, t := range mtimes {
			data, err := json.Marshal(mtimeMeta{ModTime: t.Unix()})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(path), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// ModTime returns the recorded mod time for path. Implements the same
// contract as the stat-backed source: an error means "no timestamp".
func (s *MTimeStore) ModTime(path string) (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMTimes).Get([]byte(path))
		if data == nil {
			return fmt.Errorf("mod time not indexed: %s", path)
		}
		var meta mtimeMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		t = time.Unix(meta.ModTime, 0).UTC()
		return nil
	})
	return t, err
}

// Count returns the number of indexed paths.
func (s *MTimeStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketMTimes).Stats().KeyN
		return nil
	})
	return n, err
}

// Clear removes all indexed entries.
func (s *MTimeStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketMTimes); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketMTimes)
		return err
	})
}

// Close closes the underlying database.
func (s *MTimeStore) Close() error {
	return s.db.Close()
}

package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store archives snapshots in a BoltDB file, ordered by time.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "snapshots"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Save stores a snapshot under a time-ordered key.
func (s *Store) Save(snap Snapshot) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	snap.normalize()

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(buildKey(snap), payload)
	})
}

// Latest returns the most recent snapshot, or nil when the archive is empty.
func (s *Store) Latest() (*Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var latest *Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		_, v := tx.Bucket(s.bucket).Cursor().Last()
		if v == nil {
			return nil
		}
		var snap Snapshot
		if err := json.Unmarshal(v, &snap); err != nil {
			return err
		}
		latest = &snap
		return nil
	})
	return latest, err
}

// List returns up to limit snapshots, newest first.
func (s *Store) List(limit int) ([]Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var snaps []Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.Last(); k != nil && len(snaps) < limit; k, v = c.Prev() {
			var snap Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				continue
			}
			snaps = append(snaps, snap)
		}
		return nil
	})
	return snaps, err
}

// Size returns the number of archived snapshots.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup removes snapshots taken before olderThan and returns how many were removed.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	cutoff := []byte(fmt.Sprintf("%020d", olderThan.UnixNano()))
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		var stale [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil && bytes.Compare(k[:len(cutoff)], cutoff) < 0; k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func buildKey(snap Snapshot) []byte {
	return []byte(fmt.Sprintf("%020d_%s", snap.Timestamp.UnixNano(), snap.ID))
}

// Package state persists the notifier's durable state: the live-match set
// with its per-match metadata, and the ETag validation-token cache. The
// whole state is one JSON document, loaded at cycle start and written back
// at defined checkpoints.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mbichoffe/worldcup-notifier/internal/match"
)

// An ETag cache larger than this is cleared wholesale on load. Coarse
// eviction: a lost token only costs one extra full fetch, never correctness.
const etagCacheLimit = 16

// DB is the durable state document.
type DB struct {
	match.Tracker
	ETags map[string]string `json:"etags"`
}

// NewDB creates an empty state document.
func NewDB() *DB {
	return &DB{
		Tracker: *match.NewTracker(),
		ETags:   make(map[string]string),
	}
}

// ETag returns the cached validation token for a URL.
func (db *DB) ETag(url string) (string, bool) {
	token, ok := db.ETags[url]
	return token, ok
}

// SetETag caches a validation token for a URL.
func (db *DB) SetETag(url, token string) {
	if db.ETags == nil {
		db.ETags = make(map[string]string)
	}
	db.ETags[url] = token
}

// Store handles persistence of the state document.
type Store struct {
	path string
}

// NewStore creates a Store for the given file path, creating the parent
// directory if needed.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Load reads the state document from disk. A missing file yields a fresh
// empty document; a corrupt one is an error (silently starting over would
// risk re-announcing every live match).
func (s *Store) Load() (*DB, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDB(), nil
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var db DB
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}

	if db.States == nil {
		db.States = make(map[string]*match.State)
	}
	if db.Live == nil {
		db.Live = make([]string, 0)
	}
	if db.ETags == nil || len(db.ETags) > etagCacheLimit {
		db.ETags = make(map[string]string)
	}

	return &db, nil
}

// Save writes the state document to disk. A write failure is fatal for the
// cycle: losing the watermark silently would risk duplicate notifications
// next run.
func (s *Store) Save(db *DB) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

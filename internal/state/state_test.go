package state

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mbichoffe/worldcup-notifier/internal/match"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return s
}

func TestStore_Load_MissingFile(t *testing.T) {
	s := tempStore(t)

	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(db.Live) != 0 || len(db.States) != 0 || len(db.ETags) != 0 {
		t.Errorf("Load() of missing file = %+v, want empty document", db)
	}
}

func TestStore_Load_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	if _, err := s.Load(); err == nil {
		t.Error("Load() of corrupt file succeeded, want error")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := tempStore(t)

	watermark := time.Date(2018, 7, 6, 19, 30, 0, 0, time.UTC)
	db := NewDB()
	db.Live = []string{"300331503"}
	db.States["300331503"] = &match.State{
		ID:      "300331503",
		StageID: "275073",
		TeamsByID: map[string]string{
			"43924": "Brazil",
			"43935": "Belgium",
		},
		HomeTeam:      "Brazil",
		AwayTeam:      "Belgium",
		Score:         "Brazil 1 - 2 Belgium",
		LastProcessed: watermark,
	}
	db.SetETag("https://api.example.com/timelines/1", `"abc123"`)

	if err := s.Save(db); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(loaded.Live) != 1 || loaded.Live[0] != "300331503" {
		t.Errorf("live set = %v, want [300331503]", loaded.Live)
	}
	st, ok := loaded.States["300331503"]
	if !ok {
		t.Fatal("match state missing after round trip")
	}
	if st.HomeTeam != "Brazil" || st.AwayTeam != "Belgium" {
		t.Errorf("teams = %s / %s, want Brazil / Belgium", st.HomeTeam, st.AwayTeam)
	}
	if !st.LastProcessed.Equal(watermark) {
		t.Errorf("watermark = %v, want %v", st.LastProcessed, watermark)
	}
	if st.TeamsByID["43924"] != "Brazil" {
		t.Errorf("team map = %v", st.TeamsByID)
	}
	if token, ok := loaded.ETag("https://api.example.com/timelines/1"); !ok || token != `"abc123"` {
		t.Errorf("etag = (%q, %v), want (\"abc123\", true)", token, ok)
	}
}

func TestStore_Load_ClearsOversizedETagCache(t *testing.T) {
	s := tempStore(t)

	db := NewDB()
	for i := 0; i < etagCacheLimit+1; i++ {
		db.SetETag(fmt.Sprintf("https://api.example.com/timelines/%d", i), `"tok"`)
	}
	if err := s.Save(db); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.ETags) != 0 {
		t.Errorf("etag cache has %d entries after load, want 0 (cleared)", len(loaded.ETags))
	}
}

func TestStore_Load_KeepsETagCacheAtLimit(t *testing.T) {
	s := tempStore(t)

	db := NewDB()
	for i := 0; i < etagCacheLimit; i++ {
		db.SetETag(fmt.Sprintf("https://api.example.com/timelines/%d", i), `"tok"`)
	}
	if err := s.Save(db); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.ETags) != etagCacheLimit {
		t.Errorf("etag cache has %d entries after load, want %d", len(loaded.ETags), etagCacheLimit)
	}
}

func TestETagCache_SetPersistsImmediately(t *testing.T) {
	s := tempStore(t)
	db := NewDB()
	cache := NewETagCache(db, s)

	if err := cache.Set("https://api.example.com/timelines/1", `"abc"`); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	// The token must survive a reload without any explicit Save.
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if token, ok := loaded.ETag("https://api.example.com/timelines/1"); !ok || token != `"abc"` {
		t.Errorf("persisted etag = (%q, %v), want (\"abc\", true)", token, ok)
	}

	if token, ok := cache.Get("https://api.example.com/timelines/1"); !ok || token != `"abc"` {
		t.Errorf("Get() = (%q, %v), want (\"abc\", true)", token, ok)
	}
	if _, ok := cache.Get("https://api.example.com/other"); ok {
		t.Error("Get() of unknown URL = true, want false")
	}
}

func TestNewStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	if err := s.Save(NewDB()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("state file missing: %v", err)
	}
}

package state

// ETagCache binds a state document's token map to its store so every token
// update is persisted immediately. It satisfies the fifa client's cache
// interface: a crash right after an update then costs at most one redundant
// fetch, and a lost update one extra transfer.
type ETagCache struct {
	db    *DB
	store *Store
}

// NewETagCache creates a persisting cache view over db.
func NewETagCache(db *DB, store *Store) *ETagCache {
	return &ETagCache{db: db, store: store}
}

// Get returns the cached token for a URL.
func (c *ETagCache) Get(url string) (string, bool) {
	return c.db.ETag(url)
}

// Set caches a token and persists the whole state document.
func (c *ETagCache) Set(url, token string) error {
	c.db.SetETag(url, token)
	return c.store.Save(c.db)
}

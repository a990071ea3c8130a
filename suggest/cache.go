package suggest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	_ "github.com/mattn/go-sqlite3"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS suggestions (
	input       TEXT    NOT NULL,
	count       INTEGER NOT NULL,
	suggestions TEXT    NOT NULL,
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (input, count)
)`

// Cache persists generated suggestions in a SQLite database, keyed by the
// input line and the number of suggestions requested.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens or creates the cache database at path. Entries older than
// ttl are ignored; a ttl of zero keeps entries forever.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		return nil, multierror.Append(fmt.Errorf("create cache schema: %w", err), db.Close())
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached suggestions for input, if present and fresh.
func (c *Cache) Get(ctx context.Context, input string, n int) ([]string, bool, error) {
	var data string
	var created int64
	err := c.db.QueryRowContext(ctx,
		`SELECT suggestions, created_at FROM suggestions WHERE input = ? AND count = ?`,
		input, n).Scan(&data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}
	if c.ttl > 0 && c.now().Sub(time.Unix(created, 0)) > c.ttl {
		return nil, false, nil
	}
	var suggestions []string
	if err := json.Unmarshal([]byte(data), &suggestions); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return suggestions, true, nil
}

// Put stores the suggestions for input, replacing any existing entry.
func (c *Cache) Put(ctx context.Context, input string, n int, suggestions []string) error {
	data, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO suggestions (input, count, suggestions, created_at) VALUES (?, ?, ?, ?)`,
		input, n, string(data), c.now().Unix())
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}

// CachingGenerator consults a Cache before a Generator, storing the
// generator's non-empty results.
type CachingGenerator struct {
	gen    Generator
	cache  *Cache
	logger *log.Logger
}

// CacheOption configures a CachingGenerator.
type CacheOption func(g *CachingGenerator)

// WithCacheLogger sets the logger used to report failures to store results.
// The default logs to stderr.
func WithCacheLogger(l *log.Logger) CacheOption {
	return func(g *CachingGenerator) {
		g.logger = l
	}
}

// NewCachingGenerator returns a Generator which caches the results of gen.
func NewCachingGenerator(gen Generator, cache *Cache, opts ...CacheOption) *CachingGenerator {
	g := &CachingGenerator{
		gen:    gen,
		cache:  cache,
		logger: log.New(os.Stderr, "[suggest] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements Generator. A cache failure is not fatal unless the
// generator fails as well.
func (g *CachingGenerator) Generate(ctx context.Context, input string, n int) ([]string, error) {
	cached, ok, cacheErr := g.cache.Get(ctx, input, n)
	if ok {
		return cached, nil
	}

	suggestions, err := g.gen.Generate(ctx, input, n)
	if err != nil {
		if cacheErr != nil {
			return nil, multierror.Append(cacheErr, err)
		}
		return nil, err
	}
	if len(suggestions) > 0 {
		if err := g.cache.Put(ctx, input, n, suggestions); err != nil {
			g.logger.Printf("%q: %v", input, err)
		}
	}
	return suggestions, nil
}

package tokencache

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"redpen/internal/logging"
	"redpen/internal/tokenizer"
)

// DiskCache stores encoded token sequences under a directory, one file per key.
// Safe for concurrent use. A nil *DiskCache is a cache that never hits.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
	log *slog.Logger
}

// Entry is one PutAll item.
type Entry struct {
	Key    Digest
	Tokens []*tokenizer.TokenElement
}

// Open returns a cache rooted at dir, creating it if needed.
func Open(dir string, log *slog.Logger) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &DiskCache{dir: dir, log: log}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "tokens", hex.EncodeToString(key[:])+".mp")
}

// Put encodes tokens and atomically replaces the entry for key.
func (c *DiskCache) Put(key Digest, tokens []*tokenizer.TokenElement) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.put(key, tokens)
}

func (c *DiskCache) put(key Digest, tokens []*tokenizer.TokenElement) error {
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			c.log.Warn("failed to remove temp file", "path", f.Name(), "error", rmErr)
		}
	}()

	if err := Encode(f, tokens); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// PutAll writes several entries concurrently. Entries write to distinct files,
// so the cache lock is held shared for the batch and excludes only DropAll.
func (c *DiskCache) PutAll(ctx context.Context, entries []Entry) error {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.put(e.Key, e.Tokens)
		})
	}
	return g.Wait()
}

// Get returns the tokens stored for key. A missing entry is (nil, false, nil).
// An unreadable entry from another schema is treated as a miss and removed.
func (c *DiskCache) Get(key Digest) ([]*tokenizer.TokenElement, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	p := c.pathFor(key)
	tokens, err := readFile(p)
	c.mu.RUnlock()

	switch {
	case err == nil:
		return tokens, true, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, false, nil
	case errors.Is(err, ErrSchemaMismatch):
		c.log.Debug("dropping stale token cache entry", "path", p, "error", err)
		c.mu.Lock()
		rmErr := os.Remove(p)
		c.mu.Unlock()
		if rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return nil, false, rmErr
		}
		return nil, false, nil
	default:
		return nil, false, err
	}
}

func readFile(p string) (tokens []*tokenizer.TokenElement, err error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return Decode(f)
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "tokens"))
}

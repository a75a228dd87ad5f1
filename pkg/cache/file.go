package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache keeps entries as JSON files below a directory. A file lives in a
// shard named after the first two hex digits of its key's hash and records
// the key it was written for, so a lookup never returns another key's data.
// Writes go through a temporary file and a rename; concurrent runs sharing a
// directory see either the old or the new entry.
type FileCache struct {
	dir string
}

// NewFileCache opens (creating if needed) a cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Key     string    `json:"key"`
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires,omitzero"`
	Data    []byte    `json:"data"`
}

func (e *fileEntry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && now.After(e.Expires)
}

// Get returns the entry for key. Unreadable, foreign and expired entries are
// removed and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrInvalidKey
	}
	path := c.path(key)
	e, err := readEntry(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil || e.Key != key || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set stores data under key. A ttl of zero keeps the entry until it is
// deleted.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}
	now := time.Now()
	e := fileEntry{Key: key, Created: now, Data: data}
	if ttl > 0 {
		e.Expires = now.Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. A missing entry is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry and returns how many were removed.
func (c *FileCache) Clear() (int, error) {
	return c.remove(func(*fileEntry) bool { return true })
}

// Prune removes expired and unreadable entries and returns how many were
// removed.
func (c *FileCache) Prune() (int, error) {
	now := time.Now()
	return c.remove(func(e *fileEntry) bool { return e == nil || e.expired(now) })
}

// Usage summarizes the live entries of one kind.
type Usage struct {
	Entries int
	Bytes   int64
}

// Usage returns entry counts and sizes per kind (see [KindOf]). Expired and
// unreadable entries are not counted.
func (c *FileCache) Usage() (map[string]Usage, error) {
	now := time.Now()
	out := make(map[string]Usage)
	err := c.walk(func(_ string, size int64, e *fileEntry) error {
		if e == nil || e.expired(now) {
			return nil
		}
		u := out[KindOf(e.Key)]
		u.Entries++
		u.Bytes += size
		out[KindOf(e.Key)] = u
		return nil
	})
	return out, err
}

func (c *FileCache) remove(match func(*fileEntry) bool) (int, error) {
	count := 0
	err := c.walk(func(path string, _ int64, e *fileEntry) error {
		if !match(e) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	shards, _ := os.ReadDir(c.dir)
	for _, s := range shards {
		if s.IsDir() {
			_ = os.Remove(filepath.Join(c.dir, s.Name())) // only succeeds when empty
		}
	}
	return count, nil
}

// walk calls fn for every entry file; e is nil when the file cannot be read
// as an entry.
func (c *FileCache) walk(fn func(path string, size int64, e *fileEntry) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		e, err := readEntry(path)
		if err != nil {
			e = nil
		}
		return fn(path, info.Size(), e)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func readEntry(path string) (*fileEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)

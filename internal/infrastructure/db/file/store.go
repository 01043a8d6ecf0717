package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store is a directory of JSON documents, one per collection. Collections
// opened from the same Store with the same name share a lock.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates dir if needed and returns a Store rooted at it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create %s: %w", dir, err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Ping reports whether the data directory is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("file store: %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Collection is a named list of records of type T stored as a JSON array.
type Collection[T any] struct {
	path string
	mu   *sync.Mutex
}

// Open returns the collection called name.
func Open[T any](s *Store, name string) *Collection[T] {
	return &Collection[T]{
		path: filepath.Join(s.dir, name+".json"),
		mu:   s.lock(name),
	}
}

// ReadAll returns every record. A missing file is an empty collection.
func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// FindOne returns the first record matching pred.
func (c *Collection[T]) FindOne(ctx context.Context, pred func(T) bool) (T, bool, error) {
	var zero T
	records, err := c.ReadAll(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, r := range records {
		if pred(r) {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// WriteAll replaces the whole collection.
func (c *Collection[T]) WriteAll(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(records)
}

// Mutate applies fn to the current records and writes the result, holding
// the collection lock throughout. Nothing is written if fn fails.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.read()
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return c.write(next)
}

func (c *Collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	records := []T{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	return records, nil
}

func (c *Collection[T]) write(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	return nil
}

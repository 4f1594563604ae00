// Package input keeps a local copy of each day's puzzle input.
//
// Inputs are fetched at most once per (year, day) and stored byte for byte
// under <dir>/yYYYY/dayDD.txt. Both parts of a day share the same file.
// Cached inputs never expire.
package input

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/roach88/aoc/internal/puzzle"
)

// Fetcher downloads the input of one day from the puzzle service.
// Implemented by *aoc.Client.
type Fetcher interface {
	FetchInput(ctx context.Context, year, day int) (string, error)
}

// Availability reports whether a puzzle has been unlocked.
// Implemented by *puzzle.Resolver.
type Availability interface {
	CheckAvailable(key puzzle.Key) error
}

// Cache is the on-disk input cache.
type Cache struct {
	Dir          string
	Fetcher      Fetcher
	Availability Availability
	Logger       zerolog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithAvailability makes Get refuse to download locked puzzles.
func WithAvailability(a Availability) Option {
	return func(c *Cache) {
		c.Availability = a
	}
}

// WithLogger sets the cache logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) {
		c.Logger = l
	}
}

// New creates a Cache rooted at dir.
func New(dir string, fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		Dir:     dir,
		Fetcher: fetcher,
		Logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the location of the cached input for key.
func (c *Cache) Path(key puzzle.Key) string {
	return filepath.Join(c.Dir, fmt.Sprintf("y%04d", key.Year), fmt.Sprintf("day%02d.txt", key.Day))
}

// Get returns the input for key. The local copy is used when present;
// otherwise the input is fetched and persisted.
//
// With force the input is always fetched again and the fresh text is
// returned. An existing local copy is left in place.
func (c *Cache) Get(ctx context.Context, key puzzle.Key, force bool) (string, error) {
	path := c.Path(key)

	local, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read cached input: %w", err)
	}

	if exists && !force {
		c.Logger.Debug().Str("puzzle", key.String()).Str("path", path).Msg("using cached input")
		return string(local), nil
	}

	text, err := c.fetch(ctx, key)
	if err != nil {
		return "", err
	}

	if exists {
		c.Logger.Debug().Str("puzzle", key.String()).Msg("forced fetch; keeping existing local copy")
		return text, nil
	}

	if err := writeAtomic(path, []byte(text)); err != nil {
		return "", fmt.Errorf("store input: %w", err)
	}
	c.Logger.Info().Str("puzzle", key.String()).Str("path", path).Int("bytes", len(text)).Msg("input downloaded")
	return text, nil
}

func (c *Cache) fetch(ctx context.Context, key puzzle.Key) (string, error) {
	if c.Availability != nil {
		if err := c.Availability.CheckAvailable(key); err != nil {
			return "", err
		}
	}
	if c.Fetcher == nil {
		return "", fmt.Errorf("no input for %s and no fetcher configured", key)
	}

	c.Logger.Debug().Str("puzzle", key.String()).Msg("fetching input")
	return c.Fetcher.FetchInput(ctx, key.Year, key.Day)
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

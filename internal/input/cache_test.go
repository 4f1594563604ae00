package input

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aoc/internal/aoc"
	"github.com/roach88/aoc/internal/puzzle"
)

type countingFetcher struct {
	text  string
	err   error
	calls int
}

func (f *countingFetcher) FetchInput(_ context.Context, _, _ int) (string, error) {
	f.calls++
	return f.text, f.err
}

var day1 = puzzle.Key{Year: 2020, Day: 1}

func TestGet_FetchesOnce(t *testing.T) {
	f := &countingFetcher{text: "1721\n979\n"}
	c := New(t.TempDir(), f)

	for i := 0; i < 2; i++ {
		text, err := c.Get(context.Background(), day1, false)
		require.NoError(t, err)
		assert.Equal(t, "1721\n979\n", text)
	}
	assert.Equal(t, 1, f.calls)
}

func TestGet_PersistsVerbatim(t *testing.T) {
	raw := "  spaced \r\ntrailing\n\n\n"
	f := &countingFetcher{text: raw}
	dir := t.TempDir()
	c := New(dir, f)

	_, err := c.Get(context.Background(), day1, false)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "y2020", "day01.txt"))
	require.NoError(t, err)
	assert.Equal(t, raw, string(b))
}

func TestGet_ForcedFetchesEveryTime(t *testing.T) {
	f := &countingFetcher{text: "new\n"}
	dir := t.TempDir()
	c := New(dir, f)

	path := c.Path(day1)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	for i := 0; i < 2; i++ {
		text, err := c.Get(context.Background(), day1, true)
		require.NoError(t, err)
		assert.Equal(t, "new\n", text)
	}
	assert.Equal(t, 2, f.calls)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(b), "existing copy is not overwritten")

	text, err := c.Get(context.Background(), day1, false)
	require.NoError(t, err)
	assert.Equal(t, "old\n", text)
	assert.Equal(t, 2, f.calls)
}

func TestGet_ForcedWithoutLocalCopyPersists(t *testing.T) {
	f := &countingFetcher{text: "abc"}
	c := New(t.TempDir(), f)

	_, err := c.Get(context.Background(), day1, true)
	require.NoError(t, err)

	_, err = os.Stat(c.Path(day1))
	assert.NoError(t, err)
}

func TestGet_FetchErrorsPropagate(t *testing.T) {
	authErr := &aoc.AuthenticationError{StatusCode: 400, Err: errors.New("bad cookie")}
	f := &countingFetcher{err: authErr}
	c := New(t.TempDir(), f)

	_, err := c.Get(context.Background(), day1, false)
	require.Error(t, err)
	assert.True(t, aoc.IsAuthError(err))

	_, statErr := os.Stat(c.Path(day1))
	assert.True(t, os.IsNotExist(statErr), "nothing cached on failure")
}

func TestGet_NotYetAvailable(t *testing.T) {
	f := &countingFetcher{text: "x"}
	locked := puzzle.NewResolver(2020, puzzle.ClockFunc(func() time.Time {
		return time.Date(2020, time.November, 30, 23, 0, 0, 0, puzzle.EventZone)
	}))
	c := New(t.TempDir(), f, WithAvailability(locked))

	_, err := c.Get(context.Background(), day1, false)
	require.Error(t, err)
	assert.True(t, puzzle.IsNotYetAvailable(err))
	assert.Equal(t, 0, f.calls)
}

func TestGet_LocalCopySkipsAvailability(t *testing.T) {
	locked := puzzle.NewResolver(2020, puzzle.ClockFunc(func() time.Time {
		return time.Date(2020, time.November, 1, 0, 0, 0, 0, puzzle.EventZone)
	}))
	c := New(t.TempDir(), nil, WithAvailability(locked))

	path := c.Path(day1)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("local"), 0o644))

	text, err := c.Get(context.Background(), day1, false)
	require.NoError(t, err)
	assert.Equal(t, "local", text)
}

func TestGet_NoFetcher(t *testing.T) {
	c := New(t.TempDir(), nil)
	_, err := c.Get(context.Background(), day1, false)
	assert.Error(t, err)
}

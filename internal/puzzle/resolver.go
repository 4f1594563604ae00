package puzzle

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayDirRe  = regexp.MustCompile(`^day(\d{1,2})$`)
	yearDirRe = regexp.MustCompile(`^y(\d{4})$`)
)

// Selector holds the user's choice of puzzle. Exactly one of day, path or
// date must be chosen. DaySet and PathSet mark a choice whose value is the
// zero value, so that "--day 0" or an empty path is rejected instead of
// being treated as absent.
type Selector struct {
	Day     int
	DaySet  bool
	Path    string
	PathSet bool
	Date    bool
}

func (s Selector) hasDay() bool { return s.DaySet || s.Day != 0 }
func (s Selector) hasPath() bool { return s.PathSet || s.Path != "" }

// Resolver maps selectors to identifiers for one event year.
type Resolver struct {
	Year  int
	Clock Clock
}

// NewResolver returns a Resolver for year. A nil clock reads the system clock.
func NewResolver(year int, clock Clock) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Resolver{Year: year, Clock: clock}
}

// Resolve dispatches on the populated selector field and returns the
// identifiers of both parts of the selected day.
func (r *Resolver) Resolve(sel Selector) ([]ID, error) {
	set := 0
	if sel.hasDay() {
		set++
	}
	if sel.hasPath() {
		set++
	}
	if sel.Date {
		set++
	}
	if set != 1 {
		return nil, newError(ErrCodeInvalidSelector, "exactly one of day, path or date must be given (got %d)", set)
	}

	switch {
	case sel.hasPath():
		return r.FromPath(sel.Path)
	case sel.Date:
		return r.FromDate()
	default:
		return r.FromDay(sel.Day)
	}
}

// FromDay resolves a day number in the resolver's year.
func (r *Resolver) FromDay(day int) ([]ID, error) {
	if day < FirstDay || day > LastDay {
		return nil, newError(ErrCodeInvalidSelector, "day %d is outside %d..%d", day, FirstDay, LastDay)
	}
	return Key{Year: r.Year, Day: day}.Parts(), nil
}

// FromPath resolves a solution path such as "solutions/y2020/day05/solution.go"
// or "solutions/y2020/day05". When no yYYYY component precedes the day
// directory the resolver's year is used.
func (r *Resolver) FromPath(path string) ([]ID, error) {
	clean := filepath.ToSlash(filepath.Clean(path))
	parts := strings.Split(clean, "/")

	// Look at the last component first, then its parent (path to a file).
	for i := len(parts) - 1; i >= 0 && i >= len(parts)-2; i-- {
		m := dayDirRe.FindStringSubmatch(parts[i])
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		if day < FirstDay || day > LastDay {
			return nil, newError(ErrCodeUnresolvable, "path %q names day %d outside %d..%d", path, day, FirstDay, LastDay)
		}

		year := r.Year
		if i > 0 {
			if ym := yearDirRe.FindStringSubmatch(parts[i-1]); ym != nil {
				year, _ = strconv.Atoi(ym[1])
			}
		}
		return Key{Year: year, Day: day}.Parts(), nil
	}

	return nil, newError(ErrCodeUnresolvable, "path %q does not match the yYYYY/dayDD convention", path)
}

// FromDate resolves today's puzzle. It only succeeds on December 1..25 of
// the resolver's year, in the event time zone.
func (r *Resolver) FromDate() ([]ID, error) {
	now := r.Clock.Now().In(EventZone)
	if now.Year() != r.Year || now.Month() != time.December || now.Day() > LastDay {
		return nil, newError(ErrCodeOutOfWindow,
			"%s is outside the event window (December %d..%d, %d)",
			now.Format("2006-01-02"), FirstDay, LastDay, r.Year)
	}
	return Key{Year: r.Year, Day: now.Day()}.Parts(), nil
}

// UnlockTime returns the moment the puzzle for key becomes available.
func UnlockTime(key Key) time.Time {
	return time.Date(key.Year, time.December, key.Day, 0, 0, 0, 0, EventZone)
}

// Available reports whether the puzzle for key has been unlocked.
func (r *Resolver) Available(key Key) bool {
	return !r.Clock.Now().Before(UnlockTime(key))
}

// CheckAvailable returns a NOT_YET_AVAILABLE error if key is still locked.
func (r *Resolver) CheckAvailable(key Key) error {
	if r.Available(key) {
		return nil
	}
	return newError(ErrCodeNotYetAvailable, "the puzzle input for %s is not yet available (unlocks %s)",
		key, UnlockTime(key).Format(time.RFC3339))
}

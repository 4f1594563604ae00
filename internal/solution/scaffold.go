package solution

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/roach88/aoc/internal/puzzle"
)

// Import paths the generated code refers to.
const (
	SolutionImport = "github.com/roach88/aoc/internal/solution"
	CLIImport      = "github.com/roach88/aoc/internal/cli"
)

// File names inside a day directory.
const (
	SourceFile = "solution.go"
	RunnerFile = "run.go"
	yearIndex  = "days.go"
	rootIndex  = "all.go"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

var (
	yearDirRe = regexp.MustCompile(`^y(\d{4})$`)
	dayDirRe  = regexp.MustCompile(`^day(\d{2})$`)
)

// Scaffolder creates solution stubs under Root, a directory whose Go import
// path is ImportPath. Days live in Root/yYYYY/dayDD.
type Scaffolder struct {
	Root       string
	ImportPath string
}

// Stub describes a freshly created solution unit.
type Stub struct {
	Key   puzzle.Key
	Dir   string
	Files []string
}

// YearDir returns Root/yYYYY.
func (s *Scaffolder) YearDir(year int) string {
	return filepath.Join(s.Root, yearName(year))
}

// Dir returns the directory of the unit for key.
func (s *Scaffolder) Dir(key puzzle.Key) string {
	return filepath.Join(s.YearDir(key.Year), dayName(key.Day))
}

// SourcePath returns the path of the unit's solution file.
func (s *Scaffolder) SourcePath(key puzzle.Key) string {
	return filepath.Join(s.Dir(key), SourceFile)
}

// CreateStub writes a unit with two empty entry points and a runner that
// only executes when invoked as the main program. Existing files are never
// overwritten. The generated import lists of the year and of Root are
// refreshed so the next build registers the new unit.
func (s *Scaffolder) CreateStub(key puzzle.Key) (*Stub, error) {
	dir := s.Dir(key)
	if _, err := os.Stat(s.SourcePath(key)); err == nil {
		return nil, newError(ErrCodeAlreadyExists, "a solution for %s already exists at %s", key, s.SourcePath(key))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create solution directory: %w", err)
	}

	data := map[string]any{
		"Package":        dayName(key.Day),
		"Year":           key.Year,
		"Day":            key.Day,
		"SolutionImport": SolutionImport,
		"CLIImport":      CLIImport,
		"DayImport":      s.importPath(key),
		"RelDir":         path.Join(path.Base(s.ImportPath), yearName(key.Year), dayName(key.Day)),
	}

	stub := &Stub{Key: key, Dir: dir}
	for _, f := range []struct{ tmpl, name string }{
		{"solution.go.tmpl", SourceFile},
		{"run.go.tmpl", RunnerFile},
	} {
		src, err := render(f.tmpl, data)
		if err != nil {
			return nil, err
		}
		p := filepath.Join(dir, f.name)
		if err := writeExclusive(p, src); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return nil, newError(ErrCodeAlreadyExists, "%s already exists", p)
			}
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
		stub.Files = append(stub.Files, p)
	}

	if err := s.writeYearIndex(key.Year); err != nil {
		return stub, err
	}
	if err := s.writeRootIndex(); err != nil {
		return stub, err
	}
	return stub, nil
}

// ImportPathFor returns the import path of dir inside module. A relative dir
// is taken relative to the module root. An absolute dir must lie below a
// directory holding go.mod, which is taken as the module root.
func ImportPathFor(module, dir string) (string, error) {
	clean := filepath.Clean(dir)
	if !filepath.IsAbs(clean) {
		rel := filepath.ToSlash(clean)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			return "", fmt.Errorf("solutions directory %s is outside the module", dir)
		}
		return path.Join(module, rel), nil
	}

	root, ok := findModuleRoot(clean)
	if !ok {
		return "", fmt.Errorf("solutions directory %s is not inside a Go module", dir)
	}
	rel, err := filepath.Rel(root, clean)
	if err != nil {
		return "", fmt.Errorf("solutions directory %s: %w", dir, err)
	}
	return path.Join(module, filepath.ToSlash(rel)), nil
}

// findModuleRoot walks up from dir to the nearest directory with a go.mod.
func findModuleRoot(dir string) (string, bool) {
	for {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (s *Scaffolder) importPath(key puzzle.Key) string {
	return path.Join(s.ImportPath, yearName(key.Year), dayName(key.Day))
}

// writeYearIndex regenerates Root/yYYYY/days.go with a blank import of every
// day that has a solution file.
func (s *Scaffolder) writeYearIndex(year int) error {
	entries, err := os.ReadDir(s.YearDir(year))
	if err != nil {
		return fmt.Errorf("read year directory: %w", err)
	}

	var imports []string
	for _, e := range entries {
		if !e.IsDir() || !dayDirRe.MatchString(e.Name()) {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.YearDir(year), e.Name(), SourceFile)); err != nil {
			continue
		}
		imports = append(imports, path.Join(s.ImportPath, yearName(year), e.Name()))
	}
	sort.Strings(imports)

	src, err := render("year.go.tmpl", map[string]any{
		"Package": yearName(year),
		"Year":    year,
		"Imports": imports,
	})
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.YearDir(year), yearIndex), src)
}

// writeRootIndex regenerates Root/all.go with a blank import of every year
// package.
func (s *Scaffolder) writeRootIndex() error {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return fmt.Errorf("read solutions directory: %w", err)
	}

	var imports []string
	for _, e := range entries {
		if !e.IsDir() || !yearDirRe.MatchString(e.Name()) {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.Root, e.Name(), yearIndex)); err != nil {
			continue
		}
		imports = append(imports, path.Join(s.ImportPath, e.Name()))
	}
	sort.Strings(imports)

	src, err := render("all.go.tmpl", map[string]any{
		"Package": path.Base(s.ImportPath),
		"Imports": imports,
	})
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.Root, rootIndex), src)
}

// render executes a template and gofmts the result.
func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return src, nil
}

func writeExclusive(p string, data []byte) error {
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeAtomic(p string, data []byte) error {
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(p), err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(p), err)
	}
	return nil
}

func yearName(year int) string { return fmt.Sprintf("y%04d", year) }

func dayName(day int) string { return fmt.Sprintf("day%02d", day) }

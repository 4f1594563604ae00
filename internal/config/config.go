// Package config loads aoc.json.
//
// Values come from, in increasing priority: built-in defaults, the JSON
// config file, and for the session cookie the AOC_SESSION_COOKIE
// environment variable (a .env file in the working directory is loaded by
// the command before this package runs). The result is validated against
// an embedded CUE schema.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed schema.cue
var schemaCUE string

// Default configuration values.
const (
	DefaultFile         = "aoc.json"
	DefaultYear         = 2020
	DefaultBaseURL      = "https://adventofcode.com"
	DefaultInputsDir    = "inputs"
	DefaultSolutionsDir = "solutions"
	DefaultDatabase     = "aoc.db"
	DefaultModule       = "github.com/roach88/aoc"
	DefaultUserAgent    = "github.com/roach88/aoc"
	DefaultTimeout      = 30

	// SessionEnv names the environment variable holding the session cookie.
	SessionEnv = "AOC_SESSION_COOKIE"
)

// Config holds the application configuration.
type Config struct {
	Year         int    `json:"year" yaml:"year"`
	BaseURL      string `json:"base_url" yaml:"base_url"`
	Session      string `json:"session,omitempty" yaml:"session,omitempty"`
	InputsDir    string `json:"inputs_dir" yaml:"inputs_dir"`
	SolutionsDir string `json:"solutions_dir" yaml:"solutions_dir"`
	Database     string `json:"database" yaml:"database"`
	Module       string `json:"module" yaml:"module"`
	UserAgent    string `json:"user_agent" yaml:"user_agent"`

	// Timeout is the HTTP timeout in seconds.
	Timeout int `json:"timeout" yaml:"timeout"`

	// sessionFromEnv is set when Session came from SessionEnv rather than
	// the config file.
	sessionFromEnv bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Year:         DefaultYear,
		BaseURL:      DefaultBaseURL,
		InputsDir:    DefaultInputsDir,
		SolutionsDir: DefaultSolutionsDir,
		Database:     DefaultDatabase,
		Module:       DefaultModule,
		UserAgent:    DefaultUserAgent,
		Timeout:      DefaultTimeout,
	}
}

// HTTPTimeout returns Timeout as a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Redacted returns a copy with the session cookie masked.
func (c Config) Redacted() Config {
	if c.Session != "" {
		c.Session = "********"
	}
	return c
}

// ForFile returns the copy of c that Save should write: a session cookie
// taken from the environment stays out of the file.
func (c Config) ForFile() Config {
	if c.sessionFromEnv {
		c.Session = ""
		c.sessionFromEnv = false
	}
	return c
}

// Load reads the config at path over the defaults. An empty path means
// DefaultFile, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
		if explicit {
			return Config{}, fmt.Errorf("config file %s not found", path)
		}
	} else {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	cfg.Session = strings.TrimSpace(cfg.Session)
	if cfg.Session == "" {
		cfg.Session = strings.TrimSpace(os.Getenv(SessionEnv))
		cfg.sessionFromEnv = cfg.Session != ""
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidationError lists the schema violations of a config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// Validate checks cfg against the embedded schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := ctx.Encode(cfg)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		var problems []string
		for _, e := range cueerrors.Errors(err) {
			problems = append(problems, e.Error())
		}
		return &ValidationError{Problems: problems}
	}
	return nil
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Save writes cfg to path as indented JSON. The file is replaced
// atomically and readable only by the owner, as it may hold the session.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultFile
	}

	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	b = append(b, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

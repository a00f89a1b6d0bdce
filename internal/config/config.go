// Package config reads and writes the user's persistent settings, a
// key=value file under the XDG config directory, with environment variable
// fallbacks.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// appName names the directory under the config home.
const appName = "go-vadsplit"

// Config keys.
const (
	KeyOutputDir      = "output-dir"
	KeyFFmpegPath     = "ffmpeg-path"
	KeyFrameDuration  = "frame-duration"
	KeyAggressiveness = "aggressiveness"
	KeyMinDuration    = "min-duration"
	KeyFormat         = "format"
)

// Environment variable fallbacks, consulted when a key is absent from the file.
const (
	EnvOutputDir      = "VADSPLIT_OUTPUT_DIR"
	EnvFFmpegPath     = "VADSPLIT_FFMPEG_PATH"
	EnvFrameDuration  = "VADSPLIT_FRAME_DURATION"
	EnvAggressiveness = "VADSPLIT_AGGRESSIVENESS"
	EnvMinDuration    = "VADSPLIT_MIN_DURATION"
	EnvFormat         = "VADSPLIT_FORMAT"
)

// ErrUnknownKey indicates a key that is not a supported setting.
var ErrUnknownKey = errors.New("unknown config key")

var envByKey = map[string]string{
	KeyOutputDir:      EnvOutputDir,
	KeyFFmpegPath:     EnvFFmpegPath,
	KeyFrameDuration:  EnvFrameDuration,
	KeyAggressiveness: EnvAggressiveness,
	KeyMinDuration:    EnvMinDuration,
	KeyFormat:         EnvFormat,
}

// Keys returns the supported keys in display order.
func Keys() []string {
	return []string{
		KeyOutputDir,
		KeyFFmpegPath,
		KeyFrameDuration,
		KeyAggressiveness,
		KeyMinDuration,
		KeyFormat,
	}
}

// EnvVar returns the environment fallback for key, or "" for unknown keys.
func EnvVar(key string) string {
	return envByKey[key]
}

// CheckKey returns ErrUnknownKey for unsupported keys.
func CheckKey(key string) error {
	if _, ok := envByKey[key]; !ok {
		return fmt.Errorf("%w %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Config holds raw setting values. Empty means unset; parsing and validation
// belong to the consumer.
type Config struct {
	OutputDir      string
	FFmpegPath     string
	FrameDuration  string
	Aggressiveness string
	MinDuration    string
	Format         string

	// FromEnv lists the keys whose value came from an environment variable.
	FromEnv []string
}

// Value returns the value for key.
func (c Config) Value(key string) string {
	switch key {
	case KeyOutputDir:
		return c.OutputDir
	case KeyFFmpegPath:
		return c.FFmpegPath
	case KeyFrameDuration:
		return c.FrameDuration
	case KeyAggressiveness:
		return c.Aggressiveness
	case KeyMinDuration:
		return c.MinDuration
	case KeyFormat:
		return c.Format
	}
	return ""
}

func (c *Config) set(key, value string) {
	switch key {
	case KeyOutputDir:
		c.OutputDir = value
	case KeyFFmpegPath:
		c.FFmpegPath = value
	case KeyFrameDuration:
		c.FrameDuration = value
	case KeyAggressiveness:
		c.Aggressiveness = value
	case KeyMinDuration:
		c.MinDuration = value
	case KeyFormat:
		c.Format = value
	}
}

// ---------------------------------------------------------------------------
// Store - one config file
// ---------------------------------------------------------------------------

// Store reads and writes a single config file.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns $XDG_CONFIG_HOME/go-vadsplit/config, or
// ~/.config/go-vadsplit/config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config"), nil
}

// DefaultStore returns a Store at DefaultPath.
func DefaultStore() (*Store, error) {
	p, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewStore(p), nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the file and fills unset keys from getenv.
// A missing file is not an error.
func (s *Store) Load(getenv func(string) string) (Config, error) {
	var cfg Config

	data, err := s.List()
	if err != nil {
		return cfg, err
	}
	for _, key := range Keys() {
		if v := data[key]; v != "" {
			cfg.set(key, v)
			continue
		}
		if getenv == nil {
			continue
		}
		if v := getenv(envByKey[key]); v != "" {
			cfg.set(key, v)
			cfg.FromEnv = append(cfg.FromEnv, key)
		}
	}
	return cfg, nil
}

// Get returns the file value for key, or "" if unset.
func (s *Store) Get(key string) (string, error) {
	if err := CheckKey(key); err != nil {
		return "", err
	}
	data, err := s.List()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// List returns every key=value pair in the file.
func (s *Store) List() (map[string]string, error) {
	data, err := parseFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

// Set writes key=value, creating the file and its directory as needed.
// Other pairs are preserved; comments are not.
func (s *Store) Set(key, value string) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := s.List()
	if err != nil {
		return err
	}
	data[key] = value
	return writeFile(s.path, data)
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// writeFile writes pairs sorted by key so the file diffs cleanly.
func writeFile(p string, data map[string]string) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, data[k])
	}
	if err := os.WriteFile(p, []byte(b.String()), 0644); err != nil { // #nosec G306 -- not secret
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

// EnsureOutputDir creates d if needed and checks it is a writable directory.
// It reports whether d already existed.
func EnsureOutputDir(d string) (existed bool, err error) {
	if d == "" {
		return false, errors.New("output directory cannot be empty")
	}

	info, err := os.Stat(d)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
			return false, fmt.Errorf("cannot create directory: %w", err)
		}
		return false, nil
	case err != nil:
		return false, fmt.Errorf("cannot access directory: %w", err)
	case !info.IsDir():
		return true, fmt.Errorf("path is not a directory: %s", d)
	}

	probe, err := os.CreateTemp(d, ".vadsplit-write-test-*")
	if err != nil {
		return true, fmt.Errorf("directory is not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return true, nil
}

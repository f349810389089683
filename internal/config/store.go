package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/quicklog/internal/config/loader"
)

// DefaultFileName is the settings file created under the user config dir.
const DefaultFileName = "settings.toml"

// DefaultPath returns $XDG_CONFIG_HOME/quicklog/settings.toml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "quicklog", DefaultFileName), nil
}

// Store persists Settings in one file.
type Store struct {
	mu     sync.Mutex
	path   string
	format loader.Format
	fs     loader.FileSystem
	env    *loader.EnvLoader
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithFileSystem reads through fsys instead of the OS.
func WithFileSystem(fsys loader.FileSystem) StoreOption {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) StoreOption {
	return func(s *Store) {
		s.env = loader.NewEnvLoader(prefix)
	}
}

// WithoutEnv disables environment overrides.
func WithoutEnv() StoreOption {
	return func(s *Store) {
		s.env = nil
	}
}

// NewStore creates a Store for path. The extension picks the format.
func NewStore(path string, opts ...StoreOption) (*Store, error) {
	format, err := loader.FormatOf(path)
	if err != nil {
		return nil, err
	}
	s := &Store{
		path:   path,
		format: format,
		fs:     loader.DefaultFS(),
		env:    loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the settings file path.
func (s *Store) Path() string { return s.path }

// Format returns the settings file format.
func (s *Store) Format() loader.Format { return s.format }

// LoadFile returns the raw file contents, or nil if there is no file.
func (s *Store) LoadFile() (map[string]any, error) {
	l, err := loader.ForPath(s.fs, s.path)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

// Load returns defaults overlaid with the file and the environment.
// Invalid values are reported and leave the previous layer's value.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Defaults()
	raw, err := s.LoadFile()
	if err != nil {
		return st, err
	}

	var errs []error
	if err := st.Apply(raw); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", s.path, err))
	}
	if s.env != nil {
		envValues, err := s.env.Load()
		if err != nil {
			return st, err
		}
		if err := st.Apply(envValues); err != nil {
			errs = append(errs, fmt.Errorf("environment: %w", err))
		}
	}
	return st, errors.Join(errs...)
}

// Save writes every setting to the file. Keys the file holds that are not
// settings are kept.
func (s *Store) Save(st Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(st.Map())
}

// SetValue validates and persists a single key. Other keys in the file
// are left as they are, and environment overrides are not written.
//
// When other keys in the file hold invalid values the new value is still
// written, and the returned error wraps ErrInvalidFileValues.
func (s *Store) SetValue(key, value string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.LoadFile()
	if err != nil {
		return Settings{}, err
	}
	others := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != key {
			others[k] = v
		}
	}
	st := Defaults()
	applyErr := st.Apply(others)
	if err := st.Set(key, value); err != nil {
		return Settings{}, err
	}
	if err := s.write(map[string]any{key: st.Map()[key]}); err != nil {
		return Settings{}, err
	}
	if applyErr != nil {
		return st, fmt.Errorf("%w: %s: %w", ErrInvalidFileValues, s.path, applyErr)
	}
	return st, nil
}

func (s *Store) write(values map[string]any) error {
	var (
		data []byte
		err  error
	)
	switch s.format {
	case loader.FormatJSON:
		existing, readErr := os.ReadFile(s.path)
		if readErr != nil && !errors.Is(readErr, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", s.path, readErr)
		}
		data, err = loader.PatchJSON(existing, values)
	default:
		raw, loadErr := s.LoadFile()
		if loadErr != nil {
			return loadErr
		}
		raw = loader.Merge(raw, values)
		if s.format == loader.FormatYAML {
			data, err = loader.EncodeYAML(raw)
		} else {
			data, err = loader.EncodeTOML(raw)
		}
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

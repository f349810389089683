package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/quicklog/internal/messages"
	"github.com/dshills/quicklog/internal/quicklog/extract"
	"github.com/dshills/quicklog/internal/quicklog/placement"
	"github.com/dshills/quicklog/internal/quicklog/template"
)

// Setting keys.
const (
	KeyShortcut      = "shortcutKey"
	KeyLogTemplate   = "logTemplate"
	KeySelectionMode = "selectionMode"
	KeyNoSelection   = "noSelection"
	KeyInsertion     = "insertion"
	KeyLanguage      = "language"
	KeyLogLevel      = "logLevel"
	KeyTabWidth      = "tabWidth"
)

// DefaultShortcut is the informational default key binding.
const DefaultShortcut = "alt L"

// Settings is the full QuickLog configuration.
type Settings struct {
	ShortcutKey   string `toml:"shortcutKey" yaml:"shortcutKey" json:"shortcutKey"`
	LogTemplate   string `toml:"logTemplate" yaml:"logTemplate" json:"logTemplate"`
	SelectionMode string `toml:"selectionMode" yaml:"selectionMode" json:"selectionMode"`
	NoSelection   string `toml:"noSelection" yaml:"noSelection" json:"noSelection"`
	Insertion     string `toml:"insertion" yaml:"insertion" json:"insertion"`
	Language      string `toml:"language" yaml:"language" json:"language"`
	LogLevel      string `toml:"logLevel" yaml:"logLevel" json:"logLevel"`
	TabWidth      int    `toml:"tabWidth" yaml:"tabWidth" json:"tabWidth"`
}

// Defaults returns the default settings.
func Defaults() Settings {
	return Settings{
		ShortcutKey:   DefaultShortcut,
		LogTemplate:   string(template.Default),
		SelectionMode: extract.ModeSmart.String(),
		NoSelection:   placement.NoSelectionTemplate.String(),
		Insertion:     placement.InsertLineEnd.String(),
		Language:      "en",
		LogLevel:      "info",
		TabWidth:      4,
	}
}

type field struct {
	get      func(*Settings) string
	set      func(*Settings, string)
	validate func(string) error
}

func oneOf(values ...string) func(string) error {
	return func(v string) error {
		for _, ok := range values {
			if v == ok {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(values, ", "))
	}
}

var fields = map[string]field{
	KeyShortcut: {
		get: func(s *Settings) string { return s.ShortcutKey },
		set: func(s *Settings, v string) { s.ShortcutKey = v },
	},
	KeyLogTemplate: {
		get: func(s *Settings) string { return s.LogTemplate },
		set: func(s *Settings, v string) { s.LogTemplate = v },
		validate: func(v string) error {
			if strings.TrimSpace(v) == "" {
				return errors.New("must not be empty")
			}
			return nil
		},
	},
	KeySelectionMode: {
		get: func(s *Settings) string { return s.SelectionMode },
		set: func(s *Settings, v string) { s.SelectionMode = v },
		validate: func(v string) error {
			_, err := extract.ParseMode(v)
			return err
		},
	},
	KeyNoSelection: {
		get: func(s *Settings) string { return s.NoSelection },
		set: func(s *Settings, v string) { s.NoSelection = v },
		validate: func(v string) error {
			_, err := placement.ParseNoSelection(v)
			return err
		},
	},
	KeyInsertion: {
		get: func(s *Settings) string { return s.Insertion },
		set: func(s *Settings, v string) { s.Insertion = v },
		validate: func(v string) error {
			_, err := placement.ParseInsertion(v)
			return err
		},
	},
	KeyLanguage: {
		get: func(s *Settings) string { return s.Language },
		set: func(s *Settings, v string) { s.Language = v },
		validate: func(v string) error {
			if !messages.IsSupported(v) {
				return errors.New("unsupported language")
			}
			return nil
		},
	},
	KeyLogLevel: {
		get:      func(s *Settings) string { return s.LogLevel },
		set:      func(s *Settings, v string) { s.LogLevel = strings.ToLower(v) },
		validate: func(v string) error { return oneOf("debug", "info", "warn", "error")(strings.ToLower(v)) },
	},
	KeyTabWidth: {
		get: func(s *Settings) string { return strconv.Itoa(s.TabWidth) },
		set: func(s *Settings, v string) { s.TabWidth, _ = strconv.Atoi(v) },
		validate: func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 16 {
				return errors.New("must be an integer between 1 and 16")
			}
			return nil
		},
	},
}

// Keys returns every setting key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key names a setting.
func IsKey(key string) bool {
	_, ok := fields[key]
	return ok
}

// Get returns the value of key as a string.
func (s Settings) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
	}
	return f.get(&s), nil
}

// Set validates value and assigns it to key.
func (s *Settings) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSettingNotFound, key)
	}
	if f.validate != nil {
		if err := f.validate(value); err != nil {
			return &ValidationError{Key: key, Value: value, Message: err.Error()}
		}
	}
	f.set(s, value)
	return nil
}

// Validate checks every setting and returns all failures joined.
func (s Settings) Validate() error {
	var errs []error
	for _, key := range Keys() {
		f := fields[key]
		if f.validate == nil {
			continue
		}
		v := f.get(&s)
		if err := f.validate(v); err != nil {
			errs = append(errs, &ValidationError{Key: key, Value: v, Message: err.Error()})
		}
	}
	return errors.Join(errs...)
}

// Apply assigns every known key of values over s. Unknown keys are
// ignored. Values are formatted with fmt before validation.
func (s *Settings) Apply(values map[string]any) error {
	var errs []error
	for _, key := range Keys() {
		v, ok := values[key]
		if !ok || v == nil {
			continue
		}
		if err := s.Set(key, formatValue(v)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Map returns the settings as a flat map keyed by setting key.
func (s Settings) Map() map[string]any {
	m := make(map[string]any, len(fields))
	for key, f := range fields {
		if key == KeyTabWidth {
			m[key] = s.TabWidth
			continue
		}
		m[key] = f.get(&s)
	}
	return m
}

// Diff returns the keys whose values differ between s and other.
func (s Settings) Diff(other Settings) []string {
	var changed []string
	for _, key := range Keys() {
		f := fields[key]
		if f.get(&s) != f.get(&other) {
			changed = append(changed, key)
		}
	}
	return changed
}

// Preview renders the template the way the settings screen shows it.
func (s Settings) Preview() string {
	return template.Preview(template.Template(s.LogTemplate))
}

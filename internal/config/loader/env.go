package loader

import (
	"os"
	"strings"
)

// DefaultEnvPrefix is the prefix of QuickLog environment variables.
const DefaultEnvPrefix = "QUICKLOG_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "QUICKLOG_")
	mapping map[string]string // Env var -> setting key
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "QUICKLOG_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.mapping = mapping
	return l
}

// defaultEnvMapping covers names whose camelCase form is ambiguous.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "TEMPLATE": "logTemplate",
		prefix + "SHORTCUT": "shortcutKey",
		prefix + "LANG":     "language",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, key := range l.mapping {
		if val, ok := l.lookup(env); ok {
			config[key] = val
		}
	}

	for _, env := range l.environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		config[l.envToKey(name)] = value
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, key string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = key
}

// envToKey converts QUICKLOG_LOG_TEMPLATE to logTemplate.
func (l *EnvLoader) envToKey(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		if i > 0 && b.Len() > 0 {
			part = strings.ToUpper(part[:1]) + part[1:]
		}
		b.WriteString(part)
	}
	return b.String()
}

// KeyToEnv returns the environment variable that overrides key.
func KeyToEnv(prefix, key string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for i, r := range key {
		if r >= 'A' && r <= 'Z' && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

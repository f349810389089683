package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestStoreMissingFileGivesDefaults(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "settings.toml"), WithoutEnv())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != Defaults() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestStoreUnsupportedExtension(t *testing.T) {
	if _, err := NewStore("settings.ini"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestStoreRoundTripEachFormat(t *testing.T) {
	for _, name := range []string{"s.toml", "s.yaml", "s.json"} {
		t.Run(name, func(t *testing.T) {
			store, err := NewStore(filepath.Join(t.TempDir(), "nested", name), WithoutEnv())
			if err != nil {
				t.Fatalf("NewStore: %v", err)
			}
			want := Defaults()
			want.LogTemplate = "print('${file}:${line} | ${var}', ${var})"
			want.NoSelection = "placeholder"
			want.TabWidth = 2

			if err := store.Save(want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := store.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != want {
				t.Errorf("expected %+v, got %+v", want, got)
			}
		})
	}
}

func TestStoreSaveRejectsInvalid(t *testing.T) {
	store, _ := NewStore(filepath.Join(t.TempDir(), "s.toml"), WithoutEnv())
	bad := Defaults()
	bad.Insertion = "sideways"
	if err := store.Save(bad); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestStoreSetValuePreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	writeFile(t, path, "{\n  \"theme\": \"dark\",\n  \"language\": \"en\"\n}\n")
	store, _ := NewStore(path, WithoutEnv())

	st, err := store.SetValue(KeyLanguage, "ko")
	if err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if st.Language != "ko" {
		t.Errorf("expected ko, got %q", st.Language)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"theme": "dark"`) {
		t.Errorf("unknown key lost: %s", data)
	}
	if strings.Contains(string(data), KeyLogTemplate) {
		t.Errorf("SetValue should only write its key: %s", data)
	}
}

func TestStoreSetValueTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	writeFile(t, path, "extra = 1\nlogLevel = \"warn\"\n")
	store, _ := NewStore(path, WithoutEnv())

	if _, err := store.SetValue(KeyTabWidth, "8"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	raw, err := store.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if raw["extra"] != int64(1) || raw["logLevel"] != "warn" || raw[KeyTabWidth] != int64(8) {
		t.Errorf("unexpected file contents %v", raw)
	}
	if _, err := store.SetValue(KeyTabWidth, "-1"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestStoreSetValueReportsInvalidFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	writeFile(t, path, "selectionMode = \"sideways\"\ntabWidth = 2\n")
	store, _ := NewStore(path, WithoutEnv())

	st, err := store.SetValue(KeyLanguage, "ko")
	if !errors.Is(err, ErrInvalidFileValues) {
		t.Fatalf("expected ErrInvalidFileValues, got %v", err)
	}
	if !errors.Is(err, ErrValidationFailed) || !strings.Contains(err.Error(), "selectionMode") {
		t.Errorf("expected the rejected key in %v", err)
	}
	if st.Language != "ko" || st.TabWidth != 2 || st.SelectionMode != Defaults().SelectionMode {
		t.Errorf("unexpected settings %+v", st)
	}
	raw, _ := store.LoadFile()
	if raw[KeyLanguage] != "ko" {
		t.Errorf("expected language to be written, got %v", raw)
	}
}

func TestStoreSetValueReplacesInvalidKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	writeFile(t, path, "tabWidth = -3\n")
	store, _ := NewStore(path, WithoutEnv())

	st, err := store.SetValue(KeyTabWidth, "4")
	if err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if st.TabWidth != 4 {
		t.Errorf("expected tabWidth 4, got %d", st.TabWidth)
	}
}

func TestStoreEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	writeFile(t, path, "selectionMode: smart\nlanguage: en\n")
	t.Setenv("QLTEST_SELECTION_MODE", "strict")
	t.Setenv("QLTEST_LANG", "ko")

	store, _ := NewStore(path, WithEnvPrefix("QLTEST_"))
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.SelectionMode != "strict" || got.Language != "ko" {
		t.Errorf("expected environment to win, got %+v", got)
	}
}

func TestStoreParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	writeFile(t, path, "logTemplate = = 1\n")
	store, _ := NewStore(path, WithoutEnv())

	got, err := store.Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if got != Defaults() {
		t.Error("failed load should return defaults")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	writeFile(t, path, "logLevel = \"info\"\n")
	store, _ := NewStore(path, WithoutEnv())

	changes := make(chan [2]Settings, 4)
	w, err := Watch(store, func(old, cur Settings) {
		changes <- [2]Settings{old, cur}
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	writeFile(t, path, "logLevel = \"debug\"\nshortcutKey = \"alt K\"\n")

	select {
	case c := <-changes:
		if c[0].LogLevel != "info" || c[1].LogLevel != "debug" {
			t.Errorf("unexpected change %+v -> %+v", c[0], c[1])
		}
		if diff := c[0].Diff(c[1]); len(diff) != 2 {
			t.Errorf("expected 2 changed keys, got %v", diff)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if w.Current().ShortcutKey != "alt K" {
		t.Errorf("Current() not updated: %+v", w.Current())
	}
}

func TestWatchKeepsSettingsOnParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	writeFile(t, path, "logLevel = \"warn\"\n")
	store, _ := NewStore(path, WithoutEnv())

	errs := make(chan error, 4)
	w, err := Watch(store, func(old, cur Settings) {
		t.Errorf("unexpected change to %+v", cur)
	}, WithDebounce(10*time.Millisecond), WithErrorHandler(func(err error) { errs <- err }))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	writeFile(t, path, "logLevel = \n")

	select {
	case <-errs:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for parse error")
	}
	if w.Current().LogLevel != "warn" {
		t.Errorf("expected settings kept, got %+v", w.Current())
	}
}

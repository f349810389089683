package config

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	d := Defaults()
	if d.LogTemplate != "console.log('${file}:${line} | ${var} : ', ${var});" {
		t.Errorf("unexpected default template %q", d.LogTemplate)
	}
	if d.ShortcutKey != "alt L" {
		t.Errorf("unexpected default shortcut %q", d.ShortcutKey)
	}
}

func TestSetValidates(t *testing.T) {
	tests := []struct {
		key, value string
		ok         bool
	}{
		{KeySelectionMode, "strict", true},
		{KeySelectionMode, "fuzzy", false},
		{KeyNoSelection, "multicaret", true},
		{KeyNoSelection, "all", false},
		{KeyInsertion, "next-line", true},
		{KeyInsertion, "above", false},
		{KeyLanguage, "ko", true},
		{KeyLanguage, "xx", false},
		{KeyLogLevel, "DEBUG", true},
		{KeyLogLevel, "trace", false},
		{KeyTabWidth, "8", true},
		{KeyTabWidth, "0", false},
		{KeyLogTemplate, "  ", false},
		{KeyShortcut, "ctrl shift L", true},
	}
	for _, tt := range tests {
		s := Defaults()
		err := s.Set(tt.key, tt.value)
		if tt.ok && err != nil {
			t.Errorf("Set(%s, %q) unexpected error: %v", tt.key, tt.value, err)
		}
		if !tt.ok && !errors.Is(err, ErrValidationFailed) {
			t.Errorf("Set(%s, %q) = %v, want ErrValidationFailed", tt.key, tt.value, err)
		}
	}
}

func TestSetUnknownKey(t *testing.T) {
	s := Defaults()
	if err := s.Set("colour", "red"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound, got %v", err)
	}
	if _, err := s.Get("colour"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestApplyFormatsValues(t *testing.T) {
	s := Defaults()
	err := s.Apply(map[string]any{
		KeyTabWidth:    float64(2),
		KeyLogLevel:    "warn",
		"unknownKey":   true,
		KeyLogTemplate: nil,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.TabWidth != 2 || s.LogLevel != "warn" {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.LogTemplate != Defaults().LogTemplate {
		t.Error("nil value should leave the template alone")
	}
}

func TestApplyReportsEveryFailure(t *testing.T) {
	s := Defaults()
	err := s.Apply(map[string]any{KeyInsertion: "up", KeyNoSelection: "down", KeyLanguage: "ko"})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if s.Language != "ko" {
		t.Error("valid keys should still apply")
	}
	if s.Insertion != "line-end" {
		t.Errorf("invalid value should not apply, got %q", s.Insertion)
	}
}

func TestDiff(t *testing.T) {
	a := Defaults()
	b := Defaults()
	b.ShortcutKey = "alt K"
	b.TabWidth = 2
	if got := a.Diff(b); !reflect.DeepEqual(got, []string{KeyShortcut, KeyTabWidth}) {
		t.Errorf("Diff() = %v", got)
	}
}

func TestPreview(t *testing.T) {
	want := "console.log('Example.js:42 | myVariable : ', myVariable);"
	if got := Defaults().Preview(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	if len(keys) != 8 {
		t.Fatalf("expected 8 keys, got %v", keys)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("keys not sorted: %v", keys)
		}
	}
}

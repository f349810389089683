package messages

import (
	"testing"

	"golang.org/x/text/language"
)

func TestEnglishTexts(t *testing.T) {
	c := New("en")

	tests := []struct {
		key  Key
		args []any
		want string
	}{
		{DeleteNotFound, nil, "No Quick Log statements found."},
		{DeleteConfirm, []any{1}, "Delete 1 Quick Log statement?"},
		{DeleteConfirm, []any{3}, "Delete 3 Quick Log statements?"},
		{DeleteSuccess, []any{2}, "Deleted 2 Quick Log statements."},
		{DeleteTitle, nil, "Quick Log"},
	}
	for _, tt := range tests {
		if got := c.Text(tt.key, tt.args...); got != tt.want {
			t.Errorf("Text(%s, %v) = %q, want %q", tt.key, tt.args, got, tt.want)
		}
	}
}

func TestKoreanTexts(t *testing.T) {
	c := New("ko")
	if c.Language() != language.Korean {
		t.Fatalf("expected ko, got %s", c.Language())
	}
	if got := c.Text(DeleteConfirm, 4); got != "Quick Log 문 4개를 삭제하시겠습니까?" {
		t.Errorf("unexpected confirm text %q", got)
	}
	if got := c.Text(DeleteNotFound); got != "삭제할 Quick Log 문이 없습니다." {
		t.Errorf("unexpected not-found text %q", got)
	}
}

func TestFallbackToEnglish(t *testing.T) {
	for _, lang := range []string{"", "fr", "not a tag"} {
		if got := New(lang).Language(); got != language.English {
			t.Errorf("New(%q).Language() = %s, want en", lang, got)
		}
	}
}

func TestRegionalVariant(t *testing.T) {
	if got := New("ko-KR").Language(); got != language.Korean {
		t.Errorf("expected ko, got %s", got)
	}
}

func TestEveryKeyTranslated(t *testing.T) {
	for _, tag := range Supported {
		seen := make(map[Key]bool)
		for _, e := range texts[tag] {
			seen[e.key] = true
		}
		for _, key := range Keys() {
			if !seen[key] {
				t.Errorf("%s: missing %s", tag, key)
			}
		}
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("en") || !IsSupported("ko") {
		t.Error("expected en and ko to be supported")
	}
	if IsSupported("de") {
		t.Error("de should not be supported")
	}
}

func TestTemplateVariablesKeepTokens(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "Variables: ${file} file name, ${line} line number, ${var} selected text"},
		{"ko", "변수: ${file} 파일명, ${line} 줄 번호, ${var} 선택한 텍스트"},
	}
	for _, tt := range tests {
		if got := New(tt.lang).Text(SettingsTemplateVars); got != tt.want {
			t.Errorf("%s: Text(SettingsTemplateVars) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestBuilderAcceptsEveryText(t *testing.T) {
	for _, tag := range Supported {
		for _, key := range Keys() {
			if got := New(tag.String()).Text(key); got == "" || got == string(key) {
				t.Errorf("%s: Text(%s) = %q, expected a catalog entry", tag, key, got)
			}
		}
	}
}

// Package messages holds the user-facing texts of QuickLog in every
// supported language.
package messages

import (
	"fmt"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a message.
type Key string

// Message keys.
const (
	DeleteTitle    Key = "delete.title"
	DeleteNotFound Key = "delete.notFound"
	DeleteConfirm  Key = "delete.confirm" // arg: count
	DeleteSuccess  Key = "delete.success" // arg: count

	InsertTitle     Key = "insert.title"
	InsertNoContext Key = "insert.noContext"

	SettingsShortcutLabel   Key = "settings.shortcut.label"
	SettingsShortcutRestart Key = "settings.shortcut.restart"
	SettingsTemplateLabel   Key = "settings.template.label"
	SettingsTemplateVars    Key = "settings.template.variables"
	SettingsPreviewLabel    Key = "settings.template.preview.label"
)

// Supported lists the catalog languages, default first.
var Supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(Supported)

type entry struct {
	key Key
	msg catalog.Message
}

func countMessage(one, other string) catalog.Message {
	return plural.Selectf(1, "%d", "=1", one, "other", other)
}

var texts = map[language.Tag][]entry{
	language.English: {
		{DeleteTitle, catalog.String("Quick Log")},
		{DeleteNotFound, catalog.String("No Quick Log statements found.")},
		{DeleteConfirm, countMessage("Delete 1 Quick Log statement?", "Delete %d Quick Log statements?")},
		{DeleteSuccess, countMessage("Deleted 1 Quick Log statement.", "Deleted %d Quick Log statements.")},
		{InsertTitle, catalog.String("Quick Log")},
		{InsertNoContext, catalog.String("No editor is active.")},
		{SettingsShortcutLabel, catalog.String("Shortcut key")},
		{SettingsShortcutRestart, catalog.String("Shortcut changes take effect after a restart.")},
		{SettingsTemplateLabel, catalog.String("Log template")},
		{SettingsTemplateVars, catalog.String("Variables: %[1]s file name, %[2]s line number, %[3]s selected text")},
		{SettingsPreviewLabel, catalog.String("Preview")},
	},
	language.Korean: {
		{DeleteTitle, catalog.String("Quick Log")},
		{DeleteNotFound, catalog.String("삭제할 Quick Log 문이 없습니다.")},
		{DeleteConfirm, catalog.String("Quick Log 문 %d개를 삭제하시겠습니까?")},
		{DeleteSuccess, catalog.String("Quick Log 문 %d개를 삭제했습니다.")},
		{InsertTitle, catalog.String("Quick Log")},
		{InsertNoContext, catalog.String("활성화된 편집기가 없습니다.")},
		{SettingsShortcutLabel, catalog.String("단축키")},
		{SettingsShortcutRestart, catalog.String("단축키 변경은 재시작 후 적용됩니다.")},
		{SettingsTemplateLabel, catalog.String("로그 템플릿")},
		{SettingsTemplateVars, catalog.String("변수: %[1]s 파일명, %[2]s 줄 번호, %[3]s 선택한 텍스트")},
		{SettingsPreviewLabel, catalog.String("미리보기")},
	},
}

// tokenArgs are the default arguments of messages that show template
// tokens. The catalog reads "${name}" as a variable, so the tokens are
// passed in as values.
var tokenArgs = map[Key][]any{
	SettingsTemplateVars: {"${file}", "${line}", "${var}"},
}

var builder = newBuilder()

func newBuilder() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range texts {
		for _, e := range entries {
			if err := b.Set(tag, string(e.key), e.msg); err != nil {
				panic(fmt.Sprintf("messages: %s/%s: %v", tag, e.key, err))
			}
		}
	}
	return b
}

// Catalog formats messages for one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns the catalog for lang, a BCP 47 tag such as "en" or "ko".
// Unsupported languages fall back to English.
func New(lang string) *Catalog {
	tag := language.English
	if lang = strings.TrimSpace(lang); lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, i, _ := matcher.Match(parsed)
			tag = Supported[i]
		}
	}
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

// Default returns the English catalog.
func Default() *Catalog {
	return New("en")
}

// Language returns the resolved language tag.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Text formats the message for key.
func (c *Catalog) Text(key Key, args ...any) string {
	if len(args) == 0 {
		args = tokenArgs[key]
	}
	return c.printer.Sprintf(string(key), args...)
}

// Keys returns every known message key.
func Keys() []Key {
	keys := make([]Key, 0, len(texts[language.English]))
	for _, e := range texts[language.English] {
		keys = append(keys, e.key)
	}
	return keys
}

// IsSupported reports whether lang names a catalog language exactly.
func IsSupported(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	for _, s := range Supported {
		if sb, _ := s.Base(); sb == base {
			return true
		}
	}
	return false
}

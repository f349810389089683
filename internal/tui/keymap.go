package tui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Binding is a parsed shortcut such as "alt L" or "ctrl+shift+k".
type Binding struct {
	Mod  tcell.ModMask
	Key  tcell.Key
	Rune rune
}

var namedKeys = map[string]tcell.Key{
	"enter": tcell.KeyEnter,
	"tab":   tcell.KeyTab,
	"esc":   tcell.KeyEscape,
	"f1":    tcell.KeyF1,
	"f2":    tcell.KeyF2,
	"f3":    tcell.KeyF3,
	"f4":    tcell.KeyF4,
	"f5":    tcell.KeyF5,
	"f6":    tcell.KeyF6,
	"f7":    tcell.KeyF7,
	"f8":    tcell.KeyF8,
	"f9":    tcell.KeyF9,
	"f10":   tcell.KeyF10,
	"f11":   tcell.KeyF11,
	"f12":   tcell.KeyF12,
}

// ParseShortcut parses modifiers and a key separated by spaces or '+'.
// Letter keys are case-insensitive; use "shift" to require shift.
func ParseShortcut(s string) (Binding, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ' ' || r == '+'
	})
	if len(fields) == 0 {
		return Binding{}, fmt.Errorf("empty shortcut")
	}

	var b Binding
	for _, f := range fields[:len(fields)-1] {
		switch strings.ToLower(f) {
		case "ctrl", "control":
			b.Mod |= tcell.ModCtrl
		case "alt", "option", "opt":
			b.Mod |= tcell.ModAlt
		case "shift":
			b.Mod |= tcell.ModShift
		case "meta", "cmd", "super":
			b.Mod |= tcell.ModMeta
		default:
			return Binding{}, fmt.Errorf("unknown modifier %q in shortcut %q", f, s)
		}
	}

	key := fields[len(fields)-1]
	if k, ok := namedKeys[strings.ToLower(key)]; ok {
		b.Key = k
		return b, nil
	}
	r, size := utf8.DecodeRuneInString(key)
	if size != len(key) {
		return Binding{}, fmt.Errorf("unknown key %q in shortcut %q", key, s)
	}
	b.Key = tcell.KeyRune
	b.Rune = unicode.ToLower(r)
	return b, nil
}

// Matches reports whether ev triggers the binding.
func (b Binding) Matches(ev *tcell.EventKey) bool {
	if b.Key != tcell.KeyRune {
		return ev.Key() == b.Key && ev.Modifiers() == b.Mod
	}

	if b.Mod&tcell.ModCtrl != 0 && b.Rune >= 'a' && b.Rune <= 'z' {
		want := tcell.KeyCtrlA + tcell.Key(b.Rune-'a')
		return ev.Key() == want && ev.Modifiers()&^tcell.ModCtrl == b.Mod&^tcell.ModCtrl
	}

	if ev.Key() != tcell.KeyRune || unicode.ToLower(ev.Rune()) != b.Rune {
		return false
	}
	shifted := unicode.IsUpper(ev.Rune()) || ev.Modifiers()&tcell.ModShift != 0
	if shifted != (b.Mod&tcell.ModShift != 0) {
		return false
	}
	mask := tcell.ModAlt | tcell.ModCtrl | tcell.ModMeta
	return ev.Modifiers()&mask == b.Mod&mask
}

// String formats the binding the way ParseShortcut reads it.
func (b Binding) String() string {
	var parts []string
	if b.Mod&tcell.ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if b.Mod&tcell.ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if b.Mod&tcell.ModShift != 0 {
		parts = append(parts, "shift")
	}
	if b.Mod&tcell.ModMeta != 0 {
		parts = append(parts, "meta")
	}
	if b.Key == tcell.KeyRune {
		parts = append(parts, strings.ToUpper(string(b.Rune)))
	} else {
		for name, k := range namedKeys {
			if k == b.Key {
				parts = append(parts, name)
				break
			}
		}
	}
	return strings.Join(parts, " ")
}

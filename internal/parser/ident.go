package parser

import (
	"strings"
)

// ident: результат сопоставления имени аргумента внутри одного текста.
// Все смещения: байтовые индексы в этом тексте.
type ident struct {
	raw       string // marker + name
	name      string // только \w символы
	rawStart  int
	nameStart int
	end       int  // конец совпадения (после суффикса)
	suffix    byte // '=', ':' или 0
}

func (id ident) marked() bool { return len(id.raw) > len(id.name) }

// hasValue reports whether the identifier carries a default or keyword suffix.
func (id ident) hasValue() bool { return id.suffix != 0 }

// typed: тип и имя, записанные одним текстом ("Integer name = 1").
type typed struct {
	ident
	typ       string
	typeStart int
}

func (g *grammar) matchIdent(text string) (ident, bool) {
	m := g.ident.FindStringSubmatchIndex(text)
	if m == nil {
		return ident{}, false
	}
	return buildIdent(text, m[2:8])
}

func (g *grammar) matchPair(text string) (typed, bool) {
	m := g.pair.FindStringSubmatchIndex(text)
	if m == nil {
		return typed{}, false
	}
	typ := text[m[2]:m[3]]
	// одно двоеточие скорее keyword-литерал, чем тип (Foo::Bar допустим)
	if strings.Count(typ, ":") == 1 {
		return typed{}, false
	}
	id, ok := buildIdent(text, m[4:10])
	if !ok {
		return typed{}, false
	}
	return typed{ident: id, typ: typ, typeStart: m[2]}, true
}

// buildIdent собирает ident из индексов групп (marker, name, suffix).
func buildIdent(text string, m []int) (ident, bool) {
	id := ident{
		name:      text[m[2]:m[3]],
		nameStart: m[2],
		rawStart:  m[2],
		end:       m[5],
	}
	if m[1] > m[0] {
		id.rawStart = m[0]
	}
	id.raw = text[id.rawStart:m[3]]
	if m[5] > m[4] {
		id.suffix = text[m[4]]
		if !suffixAllowed(id.suffix, text[m[5]:]) {
			return ident{}, false
		}
	}
	return id, true
}

// suffixAllowed отсекает "::", "==", "=>" и "=~": это не суффиксы имени.
func suffixAllowed(suffix byte, rest string) bool {
	if rest == "" {
		return true
	}
	switch suffix {
	case ':':
		return rest[0] != ':'
	case '=':
		return rest[0] != '=' && rest[0] != '>' && rest[0] != '~'
	}
	return true
}

func (g *grammar) isTypeText(text string) bool {
	return g.typeText.MatchString(text)
}

func (g *grammar) isTypeFragment(text string) bool {
	return g.typeToken.MatchString(text)
}

// trimmedBounds returns the offsets of text with surrounding whitespace
// removed; ok is false for blank text.
func trimmedBounds(text string) (start, end int, ok bool) {
	trimmed := strings.TrimLeft(text, " \t\r\n\f\v")
	start = len(text) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t\r\n\f\v")
	if trimmed == "" {
		return 0, 0, false
	}
	return start, start + len(trimmed), true
}

// Package keypath finds, renders, parses and follows routes of keys and
// indices through ordered JSON documents.
package keypath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Key is one step of a Path: a mapping key or a sequence index.
type Key struct {
	isIndex bool
	name    string // mapping key
	index   int    // sequence index
}

func Name(name string) Key { return Key{name: name} }

func Index(i int) Key { return Key{isIndex: true, index: i} }

func (k Key) IsIndex() bool { return k.isIndex }

func (k Key) Name() string { return k.name }

func (k Key) Index() int { return k.index }

// Value returns the key as a string or an int.
func (k Key) Value() any {
	if k.isIndex {
		return k.index
	}
	return k.name
}

func (k Key) String() string {
	if k.isIndex {
		return strconv.Itoa(k.index)
	}
	return k.name
}

// Path is the route from a root node to a descendant. The empty Path is the root.
type Path []Key

// Of builds a Path from strings and ints.
func Of(keys ...any) Path {
	p := make(Path, 0, len(keys))
	for _, k := range keys {
		switch v := k.(type) {
		case int:
			p = append(p, Index(v))
		case string:
			p = append(p, Name(v))
		case Key:
			p = append(p, v)
		default:
			panic(fmt.Sprintf("keypath: unsupported key type %T", k))
		}
	}
	return p
}

// Values returns the keys as strings and ints.
func (p Path) Values() []any {
	out := make([]any, len(p))
	for i, k := range p {
		out[i] = k.Value()
	}
	return out
}

// String renders p in compact JSONPath form, e.g. $.animal.moles[1].name.
// Names outside the RFC 9535 member-name shorthand are bracket-quoted, so the
// result is always a valid query.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, k := range p {
		switch {
		case k.isIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(k.index))
			b.WriteByte(']')
		case isShorthandName(k.name):
			b.WriteByte('.')
			b.WriteString(k.name)
		default:
			writeQuoted(&b, k.name)
		}
	}
	return b.String()
}

// Normalized renders p as an RFC 9535 normalized path, e.g. $['animal'][1].
func (p Path) Normalized() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, k := range p {
		if k.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(k.index))
			b.WriteByte(']')
			continue
		}
		writeQuoted(&b, k.name)
	}
	return b.String()
}

// GJSON renders p in the dotted syntax understood by gjson and sjson.
// The root and empty names cannot be expressed in that syntax.
func (p Path) GJSON() (string, error) {
	if len(p) == 0 {
		return "", fmt.Errorf("%w: root path in gjson syntax", ErrUnsupportedPath)
	}

	var b strings.Builder
	for i, k := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		if k.isIndex {
			b.WriteString(strconv.Itoa(k.index))
			continue
		}
		if k.name == "" {
			return "", fmt.Errorf("%w: empty key in gjson syntax", ErrUnsupportedPath)
		}
		for j := 0; j < len(k.name); j++ {
			c := k.name[j]
			if c < utf8.RuneSelf && !idRune(c) {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func writeQuoted(b *strings.Builder, name string) {
	b.WriteString("['")
	for _, r := range name {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteString("']")
}

// isShorthandName reports whether name can follow '.' in a JSONPath query:
// a letter, '_' or non-ASCII rune first, then also digits.
func isShorthandName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == utf8.RuneError:
			return false
		case r >= utf8.RuneSelf, r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// idRune checks if an ASCII byte needs no escaping in a dotted name.
func idRune(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '-'
}

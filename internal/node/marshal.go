package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"
)

// Marshal renders n as canonical JSON: compact, keys in insertion order and
// no HTML escaping. Every offset computed over serialized text must come from
// this writer.
func Marshal(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler using the canonical writer.
func (n Node) MarshalJSON() ([]byte, error) {
	return Marshal(n)
}

// Text is Marshal returning a string.
func Text(n Node) (string, error) {
	b, err := Marshal(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeNode(buf *bytes.Buffer, n Node) error {
	switch n.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if n.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		return writeNumber(buf, n.number)
	case KindString:
		writeString(buf, n.str)
	case KindMapping:
		buf.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, m.Key)
			buf.WriteByte(':')
			if err := writeNode(buf, m.Value); err != nil {
				return fmt.Errorf("key %q: %w", m.Key, err)
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedValue, n.kind)
	}
	return nil
}

// writeNumber relies on encoding/json float formatting, which follows the
// ECMAScript number-to-string rules. Negative zero is written as 0.
func writeNumber(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	if f == 0 {
		f = 0
	}
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	buf.Write(b)
	return nil
}

const hexDigits = "0123456789abcdef"

// writeString quotes s escaping only '"', '\\' and control characters.
// Everything else, U+2028 and U+2029 included, is written as is. Invalid
// UTF-8 is replaced by U+FFFD.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				buf.WriteRune(utf8.RuneError)
			} else {
				buf.WriteString(s[i : i+size])
			}
			i += size
			continue
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if c < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
			} else {
				buf.WriteByte(c)
			}
		}
		i++
	}
	buf.WriteByte('"')
}

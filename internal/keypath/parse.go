package keypath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Parse reads a path in the forms produced by Path.String and
// Path.Normalized: '$' followed by '.name', "['name']", '["name"]' or '[n]'
// segments. Wildcards, slices, unions and descendant segments are rejected.
func Parse(expr string) (Path, error) {
	if err := validateExpression(expr); err != nil {
		return nil, err
	}

	p := Path{}
	i := 1 // current parsing index in expr, after '$'
	for i < len(expr) {
		key, next, err := parseSegment(expr, i)
		if err != nil {
			return nil, err
		}
		p = append(p, key)
		i = next
	}
	return p, nil
}

func validateExpression(expr string) error {
	if expr == "" {
		return fmt.Errorf("%w: expression cannot be empty", ErrSyntax)
	}
	if expr[0] != '$' || (len(expr) > 1 && expr[1] != '.' && expr[1] != '[') {
		return fmt.Errorf("%w: expression must start with '$', '$.', or '$['", ErrSyntax)
	}
	return nil
}

func parseSegment(expr string, i int) (Key, int, error) {
	switch expr[i] {
	case '.':
		return parseDotSegment(expr, i)
	case '[':
		return parseBracketSegment(expr, i)
	}
	return Key{}, i, fmt.Errorf("%w: unexpected token '%c' at position %d, expected '.' or '['", ErrSyntax, expr[i], i)
}

func parseDotSegment(expr string, i int) (Key, int, error) {
	i++ // consume '.'
	start := i
	for i < len(expr) && (idRune(expr[i]) || expr[i] >= utf8.RuneSelf) {
		i++
	}
	if start == i {
		return Key{}, i, fmt.Errorf("%w: name expected after '.' at position %d", ErrSyntax, start)
	}
	return Name(expr[start:i]), i, nil
}

func parseBracketSegment(expr string, i int) (Key, int, error) {
	i++ // consume '['
	if i >= len(expr) {
		return Key{}, i, fmt.Errorf("%w: unterminated bracket selector, missing ']'", ErrSyntax)
	}

	if expr[i] == '\'' || expr[i] == '"' {
		name, next, err := parseQuotedName(expr, i)
		if err != nil {
			return Key{}, i, err
		}
		if next >= len(expr) || expr[next] != ']' {
			return Key{}, next, fmt.Errorf("%w: missing ']' after quoted name at position %d", ErrSyntax, next)
		}
		return Name(name), next + 1, nil
	}

	end := strings.IndexByte(expr[i:], ']')
	if end == -1 {
		return Key{}, i, fmt.Errorf("%w: unterminated bracket selector, missing ']'", ErrSyntax)
	}
	digits := expr[i : i+end]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" || (len(digits) > 1 && digits[0] == '0') {
		return Key{}, i, fmt.Errorf("%w: invalid index %q", ErrSyntax, digits)
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		return Key{}, i, fmt.Errorf("%w: invalid index %q: %v", ErrSyntax, digits, err)
	}
	return Index(index), i + end + 1, nil
}

// parseQuotedName decodes a quoted name starting at the opening quote and
// returns the index just past the closing quote.
func parseQuotedName(expr string, i int) (string, int, error) {
	quote := expr[i]
	i++

	var b strings.Builder
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\\':
			next, err := unescape(&b, expr, i)
			if err != nil {
				return "", i, err
			}
			i = next
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", i, fmt.Errorf("%w: unterminated quoted name", ErrSyntax)
}

func unescape(b *strings.Builder, expr string, i int) (int, error) {
	if i+1 >= len(expr) {
		return i, fmt.Errorf("%w: dangling escape at position %d", ErrSyntax, i)
	}

	switch c := expr[i+1]; c {
	case '\'', '"', '\\', '/':
		b.WriteByte(c)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, next, err := parseUnicodeEscape(expr, i)
		if err != nil {
			return i, err
		}
		b.WriteRune(r)
		return next, nil
	default:
		return i, fmt.Errorf("%w: invalid escape '\\%c' at position %d", ErrSyntax, c, i)
	}
	return i + 2, nil
}

func parseUnicodeEscape(expr string, i int) (rune, int, error) {
	r, err := hex4(expr, i)
	if err != nil {
		return 0, i, err
	}
	next := i + 6
	if utf16.IsSurrogate(r) && next+1 < len(expr) && expr[next] == '\\' && expr[next+1] == 'u' {
		low, err := hex4(expr, next)
		if err != nil {
			return 0, i, err
		}
		if combined := utf16.DecodeRune(r, low); combined != utf8.RuneError {
			return combined, next + 6, nil
		}
	}
	return r, next, nil
}

func hex4(expr string, i int) (rune, error) {
	if i+6 > len(expr) {
		return 0, fmt.Errorf("%w: short unicode escape at position %d", ErrSyntax, i)
	}
	v, err := strconv.ParseUint(expr[i+2:i+6], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid unicode escape at position %d", ErrSyntax, i)
	}
	return rune(v), nil
}

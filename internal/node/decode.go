package node

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Parse decodes a single JSON document keeping object keys in document order.
func Parse(data []byte) (Node, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads exactly one JSON value from r. Trailing data is an error.
func Decode(r io.Reader) (Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return Node{}, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	if err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	n, err := decodeToken(dec, tok)
	if err != nil {
		return Node{}, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Node{}, fmt.Errorf("%w: unexpected data after top-level value", ErrMalformed)
	}
	return n, nil
}

// UnmarshalJSON implements json.Unmarshaler preserving key order.
func (n *Node) UnmarshalJSON(data []byte) error {
	decoded, err := Parse(data)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

func decodeToken(dec *json.Decoder, tok json.Token) (Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Node{}, fmt.Errorf("%w: unexpected delimiter %q", ErrMalformed, v)
	case json.Number:
		return FromAny(v)
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case nil:
		return Null(), nil
	}
	return Node{}, fmt.Errorf("%w: unexpected token %T", ErrMalformed, tok)
}

func decodeObject(dec *json.Decoder) (Node, error) {
	var members []Member
	for {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return Map(members...), nil
		}

		key, ok := tok.(string)
		if !ok {
			return Node{}, fmt.Errorf("%w: object key must be a string", ErrMalformed)
		}

		valueToken, err := dec.Token()
		if err != nil {
			return Node{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		value, err := decodeToken(dec, valueToken)
		if err != nil {
			return Node{}, err
		}
		members = append(members, M(key, value))
	}
}

func decodeArray(dec *json.Decoder) (Node, error) {
	items := make([]Node, 0)
	for {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if d, ok := tok.(json.Delim); ok && d == ']' {
			return Node{kind: KindSequence, items: items}, nil
		}

		item, err := decodeToken(dec, tok)
		if err != nil {
			return Node{}, err
		}
		items = append(items, item)
	}
}

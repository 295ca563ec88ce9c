package node

import (
	"fmt"
	"strconv"

	yaml "github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
)

// ParseYAML decodes a YAML document keeping mapping keys in document order.
func ParseYAML(data []byte) (Node, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return n, nil
}

// UnmarshalYAML builds a Node straight from the YAML AST, which is the only
// view of a YAML mapping that still carries key order.
func (n *Node) UnmarshalYAML(node ast.Node) error {
	decoded, err := fromYAML(node)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

// MarshalYAML renders n with ordered mappings.
func (n Node) MarshalYAML() (any, error) {
	return toYAML(n), nil
}

func toYAML(n Node) any {
	switch n.kind {
	case KindMapping:
		out := make(yaml.MapSlice, 0, len(n.members))
		for _, m := range n.members {
			out = append(out, yaml.MapItem{Key: m.Key, Value: toYAML(m.Value)})
		}
		return out
	case KindSequence:
		out := make([]any, 0, len(n.items))
		for _, item := range n.items {
			out = append(out, toYAML(item))
		}
		return out
	}
	return n.Interface()
}

func fromYAML(node ast.Node) (Node, error) {
	switch n := node.(type) {
	case nil:
		return Null(), nil
	case *ast.DocumentNode:
		return fromYAML(n.Body)
	case *ast.NullNode:
		return Null(), nil
	case *ast.StringNode:
		return String(n.Value), nil
	case *ast.LiteralNode:
		if n.Value == nil {
			return String(""), nil
		}
		return String(n.Value.Value), nil
	case *ast.BoolNode:
		return Bool(n.Value), nil
	case *ast.IntegerNode:
		switch v := n.Value.(type) {
		case int64:
			return Number(float64(v)), nil
		case uint64:
			return Number(float64(v)), nil
		}
		return Node{}, fmt.Errorf("%w: unexpected integer node value type: %T", ErrUnsupportedValue, n.Value)
	case *ast.FloatNode:
		return checkedNumber(n.Value)
	case *ast.TagNode:
		return fromYAML(n.Value)
	case *ast.AnchorNode:
		return fromYAML(n.Value)
	case *ast.MappingValueNode:
		return fromYAMLPairs([]*ast.MappingValueNode{n})
	case *ast.MappingNode:
		return fromYAMLPairs(n.Values)
	case *ast.SequenceNode:
		items := make([]Node, 0, len(n.Values))
		for i, value := range n.Values {
			item, err := fromYAML(value)
			if err != nil {
				return Node{}, fmt.Errorf("index %d: %w", i, err)
			}
			items = append(items, item)
		}
		return Node{kind: KindSequence, items: items}, nil
	}
	return Node{}, fmt.Errorf("%w: YAML node %T", ErrUnsupportedValue, node)
}

func fromYAMLPairs(pairs []*ast.MappingValueNode) (Node, error) {
	members := make([]Member, 0, len(pairs))
	for _, pair := range pairs {
		key, err := yamlKey(pair.Key)
		if err != nil {
			return Node{}, err
		}
		value, err := fromYAML(pair.Value)
		if err != nil {
			return Node{}, fmt.Errorf("key %q: %w", key, err)
		}
		members = append(members, M(key, value))
	}
	return Map(members...), nil
}

// yamlKey stringifies scalar keys the way a JSON encoder would.
func yamlKey(key ast.Node) (string, error) {
	switch k := key.(type) {
	case *ast.StringNode:
		return k.Value, nil
	case *ast.NullNode:
		return "null", nil
	case *ast.BoolNode:
		return strconv.FormatBool(k.Value), nil
	case *ast.IntegerNode:
		switch v := k.Value.(type) {
		case int64:
			return strconv.FormatInt(v, 10), nil
		case uint64:
			return strconv.FormatUint(v, 10), nil
		}
	case *ast.FloatNode:
		return strconv.FormatFloat(k.Value, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: mapping key must be scalar, got %T", ErrUnsupportedValue, key)
}

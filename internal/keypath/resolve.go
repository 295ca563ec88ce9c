package keypath

import (
	"fmt"

	"github.com/jacoelho/dig/internal/node"
)

// Resolve follows p from root. A missing key, an out-of-range index, or a
// step whose kind does not match the container reports false.
func Resolve(root node.Node, p Path) (node.Node, bool) {
	current := root
	for _, k := range p {
		var ok bool
		if k.isIndex {
			current, ok = current.Index(k.index)
		} else {
			current, ok = current.Get(k.name)
		}
		if !ok {
			return node.Node{}, false
		}
	}
	return current, true
}

// Parent resolves the container that directly holds the value at p, and the
// key under which the value sits. The root has no parent.
func Parent(root node.Node, p Path) (node.Node, Key, bool) {
	if len(p) == 0 {
		return node.Node{}, Key{}, false
	}
	parent, ok := Resolve(root, p[:len(p)-1])
	if !ok {
		return node.Node{}, Key{}, false
	}
	return parent, p[len(p)-1], true
}

// Mark returns a copy of root with the value at p replaced by marker. It is
// the inverse of digging: the result is a target template for root.
func Mark(root node.Node, p Path, marker node.Node) (node.Node, error) {
	marked, ok := replace(root, p, marker)
	if !ok {
		return node.Node{}, fmt.Errorf("%w: %s", ErrPathNotFound, p)
	}
	return marked, nil
}

func replace(n node.Node, p Path, value node.Node) (node.Node, bool) {
	if len(p) == 0 {
		return value, true
	}

	k := p[0]
	if k.isIndex {
		child, ok := n.Index(k.index)
		if !ok {
			return node.Node{}, false
		}
		replaced, ok := replace(child, p[1:], value)
		if !ok {
			return node.Node{}, false
		}
		items := n.Items()
		items[k.index] = replaced
		return node.Seq(items...), true
	}

	child, ok := n.Get(k.name)
	if !ok {
		return node.Node{}, false
	}
	replaced, ok := replace(child, p[1:], value)
	if !ok {
		return node.Node{}, false
	}
	members := n.Members()
	for i := range members {
		if members[i].Key == k.name {
			members[i].Value = replaced
			break
		}
	}
	return node.Map(members...), true
}

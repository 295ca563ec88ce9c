package keypath

import "github.com/jacoelho/dig/internal/node"

// frame tracks the next child to visit in a container on the walk stack.
type frame struct {
	container node.Node
	next      int
}

// Find returns the path to the first value strictly equal to marker, visiting
// mapping members in insertion order and sequence items in index order,
// depth first. When the marker occurs several times the first path in that
// order wins. A root equal to the marker yields the empty path.
func Find(root, marker node.Node) (Path, bool) {
	if node.StrictEqual(root, marker) {
		return Path{}, true
	}
	if !root.IsContainer() {
		return nil, false
	}

	frames := []frame{{container: root}}
	var path Path // path[i] addresses frames[i+1] inside frames[i]

	for len(frames) > 0 {
		top := &frames[len(frames)-1]
		if top.next >= top.container.Len() {
			frames = frames[:len(frames)-1]
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
			continue
		}

		key, child := childAt(top.container, top.next)
		top.next++

		if node.StrictEqual(child, marker) {
			found := make(Path, len(path), len(path)+1)
			copy(found, path)
			return append(found, key), true
		}

		if child.IsContainer() {
			frames = append(frames, frame{container: child})
			path = append(path, key)
		}
	}

	return nil, false
}

func childAt(container node.Node, i int) (Key, node.Node) {
	if container.Kind() == node.KindMapping {
		m := container.MemberAt(i)
		return Name(m.Key), m.Value
	}
	item, _ := container.Index(i)
	return Index(i), item
}

package toggletree

import "fmt"

func resolve(tree *Node, path Path) (*Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	node := tree
	for _, name := range path.Names() {
		next, ok := node.Children[name]
		if !ok || next == nil {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		node = next
	}
	return node, nil
}

func Lookup(tree *Node, path Path) (bool, error) {
	node, err := resolve(tree, path)
	if err != nil {
		return false, err
	}
	return node.ToggledState, nil
}

// Apply returns a copy of tree with the flag at path set to value. The
// input tree is not modified.
func Apply(tree *Node, path Path, value bool) (*Node, error) {
	if _, err := resolve(tree, path); err != nil {
		return nil, err
	}
	out := tree.Clone()
	node, _ := resolve(out, path)
	node.ToggledState = value
	return out, nil
}

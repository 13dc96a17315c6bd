package toggletree

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrPathNotFound = errors.New("toggle tree path not found")
	ErrInvalidPath  = errors.New("invalid toggle tree path")
	ErrCorruptTree  = errors.New("corrupt toggle tree")
	ErrTreeNotFound = errors.New("toggle tree not found")
)

// Node is one level of a toggle tree. The root, each section and each
// sub-section share the same shape.
type Node struct {
	ToggledState bool             `json:"toggledState"`
	Children     map[string]*Node `json:"children,omitempty"`
}

func NewNode(toggled bool) *Node {
	return &Node{ToggledState: toggled}
}

func (n *Node) Child(name string, toggled bool) *Node {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}
	child := &Node{ToggledState: toggled}
	n.Children[name] = child
	return child
}

func (n *Node) ChildNames() []string {
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{ToggledState: n.ToggledState}
	if n.Children != nil {
		out.Children = make(map[string]*Node, len(n.Children))
		for name, child := range n.Children {
			out.Children[name] = child.Clone()
		}
	}
	return out
}

func Encode(tree *Node) ([]byte, error) {
	if tree == nil {
		return nil, errors.New("toggle tree is required")
	}
	return json.Marshal(tree)
}

func Decode(data []byte) (*Node, error) {
	var tree *Node
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTree, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: null document", ErrCorruptTree)
	}
	return tree, nil
}

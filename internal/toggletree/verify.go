package toggletree

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// shapeOptions compare trees by key set only: every pair of flags is equal
// and a nil children map equals an empty one.
var shapeOptions = cmp.Options{
	cmp.Comparer(func(a, b bool) bool { return true }),
	cmpopts.EquateEmpty(),
}

// Verify reports whether persisted has exactly the same section and
// sub-section names as def at every level. Flag values are ignored.
func Verify(persisted, def *Node) bool {
	return cmp.Equal(persisted, def, shapeOptions)
}

// ShapeDiff describes how persisted differs in shape from def. It is empty
// when Verify returns true.
func ShapeDiff(persisted, def *Node) string {
	return cmp.Diff(def, persisted, shapeOptions)
}

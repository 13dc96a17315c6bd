package toggletree

type SectionDefault struct {
	Name        string
	Expanded    bool
	SubSections []string
}

// DefaultTree builds a collapsed root whose children follow sections.
// Sub-sections always start collapsed. Later duplicates replace earlier ones.
func DefaultTree(sections ...SectionDefault) *Node {
	root := NewNode(false)
	root.Children = map[string]*Node{}
	for _, section := range sections {
		if section.Name == "" {
			continue
		}
		node := root.Child(section.Name, section.Expanded)
		for _, sub := range section.SubSections {
			if sub == "" {
				continue
			}
			node.Child(sub, false)
		}
	}
	return root
}

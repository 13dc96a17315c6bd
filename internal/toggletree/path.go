package toggletree

import (
	"fmt"
	"strings"
)

type PathKind int

const (
	PathRoot PathKind = iota
	PathSection
	PathSubSection
)

const (
	childrenSegment = "children"
	toggledSegment  = "toggledState"
)

type Path struct {
	kind    PathKind
	section string
	name    string
}

func Root() Path {
	return Path{kind: PathRoot}
}

func Section(name string) Path {
	return Path{kind: PathSection, section: name}
}

func SubSection(section, name string) Path {
	return Path{kind: PathSubSection, section: section, name: name}
}

func (p Path) Kind() PathKind {
	return p.kind
}

func (p Path) SectionName() string {
	return p.section
}

func (p Path) SubSectionName() string {
	if p.kind != PathSubSection {
		return ""
	}
	return p.name
}

func (p Path) Names() []string {
	switch p.kind {
	case PathSection:
		return []string{p.section}
	case PathSubSection:
		return []string{p.section, p.name}
	default:
		return nil
	}
}

// Dotted renders the legacy string form, e.g.
// "children.General.children.All.toggledState".
func (p Path) Dotted() string {
	parts := make([]string, 0, 5)
	for _, name := range p.Names() {
		parts = append(parts, childrenSegment, name)
	}
	parts = append(parts, toggledSegment)
	return strings.Join(parts, ".")
}

func (p Path) String() string {
	switch p.kind {
	case PathSection:
		return fmt.Sprintf("section(%s)", p.section)
	case PathSubSection:
		return fmt.Sprintf("subsection(%s/%s)", p.section, p.name)
	default:
		return "root"
	}
}

func ParseDottedPath(raw string) (Path, error) {
	raw = strings.TrimSpace(raw)
	if raw == toggledSegment {
		return Root(), nil
	}
	const suffix = "." + toggledSegment
	const prefix = childrenSegment + "."
	if !strings.HasSuffix(raw, suffix) || !strings.HasPrefix(raw, prefix) {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, prefix), suffix)
	if inner == "" {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	section, sub, nested := strings.Cut(inner, "."+childrenSegment+".")
	if section == "" {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	if !nested {
		return Section(section), nil
	}
	if sub == "" || strings.Contains(sub, "."+childrenSegment+".") {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	return SubSection(section, sub), nil
}

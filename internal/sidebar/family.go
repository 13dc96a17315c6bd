package sidebar

import (
	"context"
	"fmt"

	"commonwealth/internal/logging"
	"commonwealth/internal/routes"
	"commonwealth/internal/toggletree"
)

// Entry declares one row. Children turn it into a collapsible section.
type Entry struct {
	Title     string
	Target    string
	Global    bool
	Active    []string
	Rules     []Rule
	Updated   bool
	Expanded  bool
	LeftIcon  Icon
	RightIcon Icon
	Children  []Entry
}

// Family is a titled group of entries persisted under one toggle tree.
type Family struct {
	Kind    toggletree.Kind
	Title   string
	Rules   []Rule
	Entries func(env *Env) []Entry
}

type Builder interface {
	Build(ctx context.Context, env *Env) []Group
}

type defaultBuilder struct {
	families []Family
}

func NewDefaultBuilder() Builder {
	return &defaultBuilder{families: DefaultFamilies()}
}

func NewBuilder(families ...Family) Builder {
	return &defaultBuilder{families: families}
}

func (b *defaultBuilder) Build(ctx context.Context, env *Env) []Group {
	groups := make([]Group, 0, len(b.families))
	for _, family := range b.families {
		group, ok := BuildGroup(ctx, env, family)
		if ok && len(group.Sections) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func DefaultFamilies() []Family {
	return []Family{
		DiscussionFamily(),
		GovernanceFamily(),
		ChatFamily(),
		ContractsFamily(),
		AppsFamily(),
		AdminFamily(),
		ExploreFamily(),
		FunFamily(),
		SinglePlayerFamily(),
	}
}

// BuildGroup computes the default tree for the visible entries of family,
// repairs the stored tree against it, and produces the sections. ok is false
// when the family itself is hidden.
func BuildGroup(ctx context.Context, env *Env, family Family) (Group, bool) {
	if !Visible(env, family.Rules...) {
		return Group{}, false
	}
	entries := familyEntries(env, family)
	key := toggletree.StorageKey(env.CommunityID, family.Kind)
	log := env.logger().With(logging.F("tree", key))

	def := DefaultTreeFor(entries)
	tree := def
	if env.Trees != nil {
		ensured, err := env.Trees.Ensure(ctx, key, def)
		if err != nil {
			log.Warn("toggle_tree_unavailable", logging.F("error", err))
		} else {
			tree = ensured
		}
	}

	group := Group{
		Title:      family.Title,
		Kind:       family.Kind,
		StorageKey: key,
		Sections:   make([]Section, 0, len(entries)),
	}
	group.Collapsed, group.OnToggle = groupToggle(ctx, env, family.Title, log)
	for _, entry := range entries {
		group.Sections = append(group.Sections, buildSection(env, key, tree, entry, log))
	}
	return group, true
}

func FamilyFor(kind toggletree.Kind) (Family, bool) {
	for _, family := range DefaultFamilies() {
		if family.Kind == kind {
			return family, true
		}
	}
	return Family{}, false
}

// DefaultTreeForFamily is the tree BuildGroup would ensure for family under
// env, without touching storage.
func DefaultTreeForFamily(env *Env, family Family) *toggletree.Node {
	return DefaultTreeFor(familyEntries(env, family))
}

func familyEntries(env *Env, family Family) []Entry {
	if family.Entries == nil {
		return nil
	}
	return visibleEntries(env, family.Entries(env))
}

// DefaultTreeFor derives the toggle tree shape from entries: one node per
// collapsible entry, one leaf per child.
func DefaultTreeFor(entries []Entry) *toggletree.Node {
	sections := make([]toggletree.SectionDefault, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Children) == 0 {
			continue
		}
		names := make([]string, 0, len(entry.Children))
		for _, child := range entry.Children {
			names = append(names, child.Title)
		}
		sections = append(sections, toggletree.SectionDefault{
			Name:        entry.Title,
			Expanded:    entry.Expanded,
			SubSections: names,
		})
	}
	return toggletree.DefaultTree(sections...)
}

func visibleEntries(env *Env, entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Title == "" || !Visible(env, entry.Rules...) {
			continue
		}
		hadChildren := len(entry.Children) > 0
		entry.Children = visibleEntries(env, entry.Children)
		// A section whose children are all hidden has nothing to expand.
		if hadChildren && len(entry.Children) == 0 && entry.Target == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func buildSection(env *Env, key string, tree *toggletree.Node, entry Entry, log logging.Logger) Section {
	path := toggletree.Section(entry.Title)
	section := Section{
		Title:            entry.Title,
		Target:           entry.Target,
		Path:             path,
		IsVisible:        true,
		IsUpdated:        entry.Updated,
		HasDefaultToggle: entry.Expanded,
		ContainsChildren: len(entry.Children) > 0,
		LeftIcon:         entry.LeftIcon,
		RightIcon:        entry.RightIcon,
	}
	section.IsActive = env.matches(activePatterns(entry)...)
	if section.ContainsChildren {
		section.Toggled = lookupOr(tree, path, entry.Expanded)
	}
	section.OnClick = clickAction(env, key, entry, path, section.ContainsChildren, section.Toggled, log)

	section.DisplayData = make([]SubSection, 0, len(entry.Children))
	for _, child := range entry.Children {
		childPath := toggletree.SubSection(entry.Title, child.Title)
		toggled := lookupOr(tree, childPath, false)
		sub := SubSection{
			Title:            child.Title,
			Target:           child.Target,
			Path:             childPath,
			IsActive:         env.matches(activePatterns(child)...),
			IsVisible:        true,
			IsUpdated:        child.Updated,
			HasDefaultToggle: child.Expanded,
			ContainsChildren: len(child.Children) > 0,
			Toggled:          toggled,
			LeftIcon:         child.LeftIcon,
			RightIcon:        child.RightIcon,
		}
		sub.OnClick = clickAction(env, key, child, childPath, true, toggled, log)
		if sub.IsActive {
			section.IsActive = true
		}
		if sub.IsUpdated {
			section.IsUpdated = true
		}
		section.DisplayData = append(section.DisplayData, sub)
	}
	return section
}

// clickAction navigates to the entry target, resets the overlay and stores
// the negation of the flag value seen when the row was built.
func clickAction(env *Env, key string, entry Entry, path toggletree.Path, toggles bool, current bool, log logging.Logger) Action {
	target := entry.Target
	global := entry.Global
	return func(ctx context.Context) error {
		if target != "" && env.Nav != nil {
			if global {
				env.Nav.Navigate(target)
			} else {
				env.Nav.Navigate(target, routes.InCommunity(env.CommunityID))
			}
		}
		if env.Menu != nil {
			env.Menu.ResetMenu()
		}
		if !toggles || env.Trees == nil {
			return nil
		}
		if err := env.Trees.SetNegated(ctx, key, path, current); err != nil {
			log.Warn("toggle_tree_set_failed", logging.F("path", path.String()), logging.F("error", err))
			return fmt.Errorf("toggle %s: %w", entry.Title, err)
		}
		return nil
	}
}

func groupToggle(ctx context.Context, env *Env, title string, log logging.Logger) (bool, Action) {
	if env.Trees == nil {
		return false, nil
	}
	collapsed, _, err := env.Trees.GroupToggled(ctx, title)
	if err != nil {
		log.Warn("group_toggle_unreadable", logging.F("group", title), logging.F("error", err))
	}
	return collapsed, func(ctx context.Context) error {
		return env.Trees.SetGroupToggled(ctx, title, !collapsed)
	}
}

func activePatterns(entry Entry) []string {
	if len(entry.Active) > 0 {
		if entry.Global {
			return entry.Active
		}
		out := make([]string, 0, len(entry.Active))
		for _, pattern := range entry.Active {
			out = append(out, routes.Clean("/:scope/"+pattern))
		}
		return out
	}
	if entry.Target == "" {
		return nil
	}
	if entry.Global {
		return []string{entry.Target}
	}
	return []string{routes.Clean("/:scope/" + entry.Target)}
}

func lookupOr(tree *toggletree.Node, path toggletree.Path, fallback bool) bool {
	value, err := toggletree.Lookup(tree, path)
	if err != nil {
		return fallback
	}
	return value
}

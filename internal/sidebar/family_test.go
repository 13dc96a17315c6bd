package sidebar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonwealth/internal/routes"
	"commonwealth/internal/store"
	"commonwealth/internal/toggletree"
	"commonwealth/internal/types"
)

type flagSet map[string]bool

func (f flagSet) Enabled(name string) bool { return f[name] }

type menuCounter struct{ resets int }

func (m *menuCounter) ResetMenu() { m.resets++ }

type testEnv struct {
	*Env
	repo store.Repository
	nav  *routes.Navigator
	menu *menuCounter
}

func newTestEnv(data *types.CommunityData, flags flagSet) testEnv {
	repo := store.NewMemoryRepository()
	nav := routes.NewNavigator("/abc/discussions", routes.DefaultRedirects())
	menu := &menuCounter{}
	return testEnv{
		Env: &Env{
			CommunityID: "abc",
			Data:        data,
			Routes:      nav,
			Flags:       flags,
			Nav:         nav,
			Menu:        menu,
			Trees:       toggletree.NewStore(repo),
		},
		repo: repo,
		nav:  nav,
		menu: menu,
	}
}

func communityData(topics ...types.Topic) *types.CommunityData {
	return &types.CommunityData{
		Community: &types.Community{ID: "abc", Name: "ABC"},
		Topics:    topics,
		User:      &types.User{LoggedIn: true, JoinedCommunity: true},
	}
}

func findSection(t *testing.T, group Group, title string) Section {
	t.Helper()
	for _, section := range group.Sections {
		if section.Title == title {
			return section
		}
	}
	t.Fatalf("section %q not found in %q", title, group.Title)
	return Section{}
}

func sectionTitles(group Group) []string {
	out := make([]string, 0, len(group.Sections))
	for _, section := range group.Sections {
		out = append(out, section.Title)
	}
	return out
}

func subSectionTitles(section Section) []string {
	out := make([]string, 0, len(section.DisplayData))
	for _, sub := range section.DisplayData {
		out = append(out, sub.Title)
	}
	return out
}

func TestDiscussionFreshCommunityStoresDefault(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true}), nil)

	group, ok := BuildGroup(ctx, env.Env, DiscussionFamily())
	require.True(t, ok)
	assert.Equal(t, []string{"All Discussions", "Overview", "General"}, sectionTitles(group))

	raw, ok, err := env.repo.Get(ctx, "abc-discussions-toggle-tree")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t,
		`{"toggledState":false,"children":{"General":{"toggledState":true,"children":{"All":{"toggledState":false}}}}}`,
		string(raw))

	general := findSection(t, group, "General")
	assert.True(t, general.ContainsChildren)
	assert.True(t, general.HasDefaultToggle)
	assert.True(t, general.Toggled)
	require.Len(t, general.DisplayData, 1)
	assert.Equal(t, "/discussions/General", general.DisplayData[0].Target)
}

func TestDiscussionRenamedTopicResetsTree(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true}), nil)
	_, ok := BuildGroup(ctx, env.Env, DiscussionFamily())
	require.True(t, ok)

	env.Data.Topics = []types.Topic{{ID: 1, Name: "Updates", FeaturedInSidebar: true}}
	_, ok = BuildGroup(ctx, env.Env, DiscussionFamily())
	require.True(t, ok)

	tree, ok, err := env.Trees.Load(ctx, "abc-discussions-toggle-tree")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Updates"}, tree.ChildNames())
}

func TestSectionClickFlipsStoredState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true}), nil)
	group, _ := BuildGroup(ctx, env.Env, DiscussionFamily())
	general := findSection(t, group, "General")
	require.True(t, general.Toggled)

	require.NoError(t, general.OnClick(ctx))
	group, _ = BuildGroup(ctx, env.Env, DiscussionFamily())
	assert.False(t, findSection(t, group, "General").Toggled)
}

func TestDoubleClickBeforeRebuildStoresSingleNegation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true}), nil)
	group, _ := BuildGroup(ctx, env.Env, DiscussionFamily())
	general := findSection(t, group, "General")
	pre := general.Toggled

	require.NoError(t, general.OnClick(ctx))
	require.NoError(t, general.OnClick(ctx))

	stored, err := env.Trees.Value(ctx, "abc-discussions-toggle-tree", toggletree.Section("General"))
	require.NoError(t, err)
	assert.Equal(t, !pre, stored)
}

func TestSubSectionClickNavigatesAndResetsMenu(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true}), nil)
	group, _ := BuildGroup(ctx, env.Env, DiscussionFamily())
	all := findSection(t, group, "General").DisplayData[0]
	assert.False(t, all.IsActive)

	require.NoError(t, all.OnClick(ctx))
	assert.Equal(t, "/abc/discussions/General", env.nav.Current())
	assert.Equal(t, 1, env.menu.resets)

	group, _ = BuildGroup(ctx, env.Env, DiscussionFamily())
	general := findSection(t, group, "General")
	assert.True(t, general.IsActive)
	assert.True(t, general.DisplayData[0].IsActive)
	assert.True(t, general.DisplayData[0].Toggled)
	assert.False(t, findSection(t, group, "All Discussions").IsActive)
}

func TestLeafClickDoesNotWriteTree(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true}), nil)
	group, _ := BuildGroup(ctx, env.Env, DiscussionFamily())
	before, _, err := env.repo.Get(ctx, "abc-discussions-toggle-tree")
	require.NoError(t, err)

	require.NoError(t, findSection(t, group, "Overview").OnClick(ctx))
	assert.Equal(t, "/abc/overview", env.nav.Current())
	after, _, err := env.repo.Get(ctx, "abc-discussions-toggle-tree")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGatedTopicHiddenWithoutAccess(t *testing.T) {
	ctx := context.Background()
	data := communityData(
		types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true},
		types.Topic{ID: 2, Name: "Holders", FeaturedInSidebar: true, TokenGated: true, Order: 1},
	)
	data.Memberships = []types.Membership{{GroupID: 7, TopicIDs: []int{2}, IsAllowed: false}}
	env := newTestEnv(data, nil)

	group, _ := BuildGroup(ctx, env.Env, DiscussionFamily())
	assert.NotContains(t, sectionTitles(group), "Holders")
	tree, _, err := env.Trees.Load(ctx, "abc-discussions-toggle-tree")
	require.NoError(t, err)
	assert.Equal(t, []string{"General"}, tree.ChildNames())

	data.Memberships[0].IsAllowed = true
	group, _ = BuildGroup(ctx, env.Env, DiscussionFamily())
	holders := findSection(t, group, "Holders")
	assert.Equal(t, IconLock, holders.LeftIcon)
}

func TestArchivedEntryFollowsTopics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 3, Name: "Old", Archived: true, FeaturedInSidebar: true}), nil)
	group, _ := BuildGroup(ctx, env.Env, DiscussionFamily())
	assert.Equal(t, []string{"All Discussions", "Overview", "Archived"}, sectionTitles(group))
}

func TestUnreadTopicMarksSectionUpdated(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true, Unread: true}), nil)
	group, _ := BuildGroup(ctx, env.Env, DiscussionFamily())
	assert.True(t, findSection(t, group, "General").IsUpdated)
}

func TestMissingDataRendersStaticEntriesOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(nil, flagSet{FlagChat: true, FlagProposalTemplates: true})
	groups := NewDefaultBuilder().Build(ctx, env.Env)

	titles := map[string]Group{}
	for _, group := range groups {
		titles[group.Title] = group
	}
	assert.Contains(t, titles, "Discussions")
	assert.Contains(t, titles, "Explore")
	assert.NotContains(t, titles, "Governance")
	assert.NotContains(t, titles, "Chat")
	assert.NotContains(t, titles, "Admin Capabilities")
	assert.NotContains(t, titles, "My Commonwealth")
	assert.Equal(t, []string{"All Discussions", "Overview"}, sectionTitles(titles["Discussions"]))
	assert.Equal(t, []string{"Communities"}, sectionTitles(titles["Explore"]))
}

func TestBuildWithoutStoreUsesDefaults(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true}), nil)
	env.Trees = nil
	group, ok := BuildGroup(ctx, env.Env, DiscussionFamily())
	require.True(t, ok)
	general := findSection(t, group, "General")
	assert.True(t, general.Toggled)
	assert.Nil(t, group.OnToggle)
	require.NoError(t, general.OnClick(ctx))
}

func TestGroupToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(), nil)
	group, _ := BuildGroup(ctx, env.Env, ExploreFamily())
	assert.False(t, group.Collapsed)
	require.NotNil(t, group.OnToggle)
	require.NoError(t, group.OnToggle(ctx))

	group, _ = BuildGroup(ctx, env.Env, ExploreFamily())
	assert.True(t, group.Collapsed)
	raw, ok, err := env.repo.Get(ctx, "Explore-toggled")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", string(raw))
}

func TestDefaultTreeForFamilyMatchesEnsured(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(communityData(types.Topic{ID: 1, Name: "General", FeaturedInSidebar: true}), nil)
	family, ok := FamilyFor(toggletree.KindDiscussions)
	require.True(t, ok)

	def := DefaultTreeForFamily(env.Env, family)
	_, ok = BuildGroup(ctx, env.Env, family)
	require.True(t, ok)
	matches, err := env.Trees.Verify(ctx, "abc-discussions-toggle-tree", def)
	require.NoError(t, err)
	assert.True(t, matches)

	_, ok = FamilyFor(toggletree.Kind("bogus"))
	assert.False(t, ok)
}

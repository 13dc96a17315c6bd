package types

import "testing"

func TestFeaturedTopicsOrdering(t *testing.T) {
	topics := []Topic{
		{ID: 1, Name: "Zeta", FeaturedInSidebar: true, Order: 1},
		{ID: 2, Name: "Alpha", FeaturedInSidebar: true, Order: 1},
		{ID: 3, Name: "General", FeaturedInSidebar: true, Order: 0},
		{ID: 4, Name: "Hidden", FeaturedInSidebar: false},
		{ID: 5, Name: "Old", FeaturedInSidebar: true, Archived: true},
		{ID: 6, Name: "  ", FeaturedInSidebar: true},
	}
	got := FeaturedTopics(topics)
	want := []string{"General", "Alpha", "Zeta"}
	if len(got) != len(want) {
		t.Fatalf("unexpected topics: %#v", got)
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: want %s got %s", i, name, got[i].Name)
		}
	}
	if FeaturedTopics(nil) == nil {
		t.Fatalf("expected empty slice for nil input")
	}
}

func TestTopicAccess(t *testing.T) {
	memberships := []Membership{
		{GroupID: 1, TopicIDs: []int{10, 11}, IsAllowed: false},
		{GroupID: 2, TopicIDs: []int{11}, IsAllowed: true},
	}
	if TopicAccess(memberships, 10) {
		t.Fatalf("expected topic 10 to be denied")
	}
	if !TopicAccess(memberships, 11) {
		t.Fatalf("expected topic 11 to be allowed by group 2")
	}
	if !TopicAccess(memberships, 12) {
		t.Fatalf("expected ungated topic to be open")
	}
	if !TopicAccess(nil, 10) {
		t.Fatalf("expected open access with no memberships")
	}
}

func TestUserRoles(t *testing.T) {
	var anon *User
	if anon.IsAdmin() || anon.IsLoggedIn() || anon.IsAdminOrMod() {
		t.Fatalf("nil user should have no roles")
	}
	mod := &User{LoggedIn: true, Moderator: true}
	if mod.IsAdmin() || !mod.IsAdminOrMod() {
		t.Fatalf("unexpected moderator roles")
	}
}

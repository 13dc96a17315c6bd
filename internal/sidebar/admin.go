package sidebar

import "commonwealth/internal/toggletree"

const (
	FlagContest            = "contest"
	FlagTokenizedCommunity = "tokenizedCommunity"
)

// AdminFamily is shown to admins and moderators. Moderators only see the
// member management entries.
func AdminFamily() Family {
	return Family{
		Kind:    toggletree.KindAdmin,
		Title:   "Admin Capabilities",
		Rules:   []Rule{RequireCommunity(), RequireAdminOrMod()},
		Entries: adminEntries,
	}
}

func adminEntries(env *Env) []Entry {
	admin := []Rule{RequireAdmin()}
	return []Entry{
		{
			Title:    "Community",
			Expanded: true,
			LeftIcon: IconGear,
			Children: []Entry{
				{Title: "Community Profile", Target: "/manage/profile", Rules: admin},
				{Title: "Integrations", Target: "/manage/integrations", Rules: admin},
				{Title: "Topics", Target: "/manage/topics", Rules: admin},
				{
					Title:  "Token Settings",
					Target: "/manage/token",
					Rules:  []Rule{RequireAdmin(), RequireFlag(FlagTokenizedCommunity), RequireTokenized()},
				},
			},
		},
		{
			Title: "Members",
			Children: []Entry{
				{Title: "Admins & Moderators", Target: "/manage/moderators"},
				{Title: "Member Groups", Target: "/members/groups", Active: []string{"members/groups", "members/groups/*"}},
			},
		},
		{
			Title: "Engagement",
			Children: []Entry{
				{Title: "Contests", Target: "/manage/contests", Rules: []Rule{RequireAdmin(), RequireFlag(FlagContest)}},
				{Title: "Webhooks", Target: "/manage/webhooks", Rules: admin},
				{Title: "Analytics", Target: "/analytics", Rules: admin},
			},
		},
	}
}

package sidebar

import (
	"net/url"

	"commonwealth/internal/toggletree"
)

const FlagGovernancePage = "governancePage"

func GovernanceFamily() Family {
	return Family{
		Kind:    toggletree.KindGovernance,
		Title:   "Governance",
		Rules:   []Rule{RequireCommunity()},
		Entries: governanceEntries,
	}
}

func governanceEntries(env *Env) []Entry {
	entries := []Entry{
		{Title: "Members", Target: "/members", Active: []string{"members", "members/*"}},
	}
	if community := env.community(); community.HasSnapshot() {
		snapshots := Entry{
			Title:    "Snapshots",
			Rules:    []Rule{RequireSnapshot()},
			Children: make([]Entry, 0, len(community.SnapshotSpaces)),
		}
		for _, space := range community.SnapshotSpaces {
			snapshots.Children = append(snapshots.Children, Entry{
				Title:     space,
				Target:    "/snapshot/" + url.PathEscape(space),
				Active:    []string{"snapshot/" + url.PathEscape(space) + "/*"},
				RightIcon: IconExternal,
			})
		}
		entries = append(entries, snapshots)
	}
	entries = append(entries,
		Entry{Title: "Proposals", Target: "/proposals", Active: []string{"proposals", "proposal/*"}},
		Entry{Title: "Governance", Target: "/governance", Rules: []Rule{RequireFlag(FlagGovernancePage)}},
		Entry{Title: "Treasury", Target: "/treasury", Rules: []Rule{RequireFlag(FlagGovernancePage)}},
		Entry{Title: "Delegation", Target: "/delegation", Rules: []Rule{RequireFlag(FlagGovernancePage), RequireLoggedIn()}},
	)
	return entries
}

package sidebar

import "commonwealth/internal/toggletree"

const (
	FlagFarcasterContest = "farcasterContest"
	FlagXP               = "xp"
)

func AppsFamily() Family {
	return Family{
		Kind:  toggletree.KindApps,
		Title: "Apps",
		Rules: []Rule{RequireCommunity()},
		Entries: func(env *Env) []Entry {
			return []Entry{{
				Title: "Community Apps",
				Children: []Entry{
					{Title: "Snapshot", Target: "/snapshot", Rules: []Rule{RequireSnapshot()}, RightIcon: IconExternal},
					{Title: "Farcaster Frames", Target: "/farcaster", Rules: []Rule{RequireFlag(FlagFarcasterContest)}},
					{Title: "Quests", Target: "/quests", Rules: []Rule{RequireFlag(FlagXP)}, RightIcon: IconStar},
				},
			}}
		},
	}
}

func ExploreFamily() Family {
	return Family{
		Kind:  toggletree.KindExplore,
		Title: "Explore",
		Entries: func(env *Env) []Entry {
			return []Entry{
				{Title: "Communities", Target: "/communities", Global: true},
				{Title: "Contests", Target: "/contests", Global: true, Rules: []Rule{RequireFlag(FlagContest)}},
				{Title: "Leaderboard", Target: "/leaderboard", Global: true, Rules: []Rule{RequireFlag(FlagXP)}},
				{Title: "Dashboard", Target: "/dashboard", Global: true, Rules: []Rule{RequireLoggedIn()}},
			}
		},
	}
}

func FunFamily() Family {
	return Family{
		Kind:  toggletree.KindFun,
		Title: "Fun",
		Entries: func(env *Env) []Entry {
			return []Entry{
				{Title: "Leaderboard", Target: "/leaderboard", Global: true, Rules: []Rule{RequireFlag(FlagXP)}},
				{Title: "Quests", Target: "/quests", Global: true, Rules: []Rule{RequireFlag(FlagXP)}, RightIcon: IconStar},
				{Title: "Rewards", Target: "/rewards", Global: true, Rules: []Rule{RequireLoggedIn()}},
			}
		},
	}
}

func SinglePlayerFamily() Family {
	return Family{
		Kind:  toggletree.KindSinglePlayer,
		Title: "My Commonwealth",
		Rules: []Rule{RequireLoggedIn()},
		Entries: func(env *Env) []Entry {
			return []Entry{
				{Title: "Profile", Target: "/profile", Global: true},
				{Title: "My Communities", Target: "/profile/communities", Global: true},
				{
					Title: "Notifications",
					Children: []Entry{
						{Title: "Inbox", Target: "/notifications", Global: true},
						{Title: "Settings", Target: "/notification-settings", Global: true},
					},
				},
			}
		},
	}
}

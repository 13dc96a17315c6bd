package sidebar

import (
	"fmt"
	"strings"

	"commonwealth/internal/types"
)

// Rule is one visibility predicate. Entries list their rules and every rule
// must allow the entry for it to be shown.
type Rule interface {
	Allow(env *Env) bool
	String() string
}

type rule struct {
	name  string
	allow func(env *Env) bool
}

func (r rule) Allow(env *Env) bool {
	return r.allow(env)
}

func (r rule) String() string {
	return r.name
}

func RequireFlag(name string) Rule {
	return rule{name: "flag:" + name, allow: func(env *Env) bool { return env.flag(name) }}
}

func RequireAdmin() Rule {
	return rule{name: "admin", allow: func(env *Env) bool { return env.user().IsAdmin() }}
}

func RequireAdminOrMod() Rule {
	return rule{name: "admin-or-mod", allow: func(env *Env) bool { return env.user().IsAdminOrMod() }}
}

func RequireLoggedIn() Rule {
	return rule{name: "logged-in", allow: func(env *Env) bool { return env.user().IsLoggedIn() }}
}

func RequireMember() Rule {
	return rule{name: "member", allow: func(env *Env) bool {
		user := env.user()
		return user.IsLoggedIn() && (user.JoinedCommunity || user.IsAdminOrMod())
	}}
}

// RequireTopicAccess hides an entry when memberships gate topicID and none
// of them allow it. Admins always pass.
func RequireTopicAccess(topicID int) Rule {
	return rule{name: fmt.Sprintf("topic:%d", topicID), allow: func(env *Env) bool {
		if env.user().IsAdmin() {
			return true
		}
		return types.TopicAccess(env.memberships(), topicID)
	}}
}

func RequireSnapshot() Rule {
	return rule{name: "snapshot", allow: func(env *Env) bool { return env.community().HasSnapshot() }}
}

func RequireTokenized() Rule {
	return rule{name: "tokenized", allow: func(env *Env) bool {
		community := env.community()
		return community != nil && community.Tokenized
	}}
}

func RequireCommunity() Rule {
	return rule{name: "community", allow: func(env *Env) bool { return env.community() != nil }}
}

func All(rules ...Rule) Rule {
	return rule{name: "all(" + joinRules(rules) + ")", allow: func(env *Env) bool { return Visible(env, rules...) }}
}

func Any(rules ...Rule) Rule {
	return rule{name: "any(" + joinRules(rules) + ")", allow: func(env *Env) bool {
		for _, r := range rules {
			if r != nil && r.Allow(env) {
				return true
			}
		}
		return false
	}}
}

func Not(r Rule) Rule {
	return rule{name: "not(" + r.String() + ")", allow: func(env *Env) bool { return !r.Allow(env) }}
}

func Visible(env *Env, rules ...Rule) bool {
	for _, r := range rules {
		if r != nil && !r.Allow(env) {
			return false
		}
	}
	return true
}

func joinRules(rules []Rule) string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		if r != nil {
			names = append(names, r.String())
		}
	}
	return strings.Join(names, ",")
}

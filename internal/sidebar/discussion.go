package sidebar

import (
	"net/url"

	"commonwealth/internal/toggletree"
	"commonwealth/internal/types"
)

const allThreadsTitle = "All"

func DiscussionFamily() Family {
	return Family{
		Kind:    toggletree.KindDiscussions,
		Title:   "Discussions",
		Entries: discussionEntries,
	}
}

func discussionEntries(env *Env) []Entry {
	entries := []Entry{
		{Title: "All Discussions", Target: "/discussions", Active: []string{"discussions"}},
		{Title: "Overview", Target: "/overview"},
	}
	topics := env.topics()
	for _, topic := range types.FeaturedTopics(topics) {
		entries = append(entries, topicEntry(topic))
	}
	if hasArchived(topics) {
		entries = append(entries, Entry{Title: "Archived", Target: "/archived"})
	}
	return entries
}

func topicEntry(topic types.Topic) Entry {
	target := "/discussions/" + url.PathEscape(topic.Name)
	entry := Entry{
		Title:    topic.Name,
		Updated:  topic.Unread,
		Expanded: true,
		Children: []Entry{{
			Title:   allThreadsTitle,
			Target:  target,
			Updated: topic.Unread,
		}},
	}
	if topic.TokenGated {
		entry.Rules = append(entry.Rules, RequireTopicAccess(topic.ID))
		entry.LeftIcon = IconLock
	}
	return entry
}

func hasArchived(topics []types.Topic) bool {
	for _, topic := range topics {
		if topic.Archived {
			return true
		}
	}
	return false
}

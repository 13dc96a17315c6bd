package sidebar

import (
	"strconv"

	"commonwealth/internal/toggletree"
)

const FlagChat = "chat"

func ChatFamily() Family {
	return Family{
		Kind:    toggletree.KindChat,
		Title:   "Chat",
		Rules:   []Rule{RequireFlag(FlagChat), RequireCommunity()},
		Entries: chatEntries,
	}
}

func chatEntries(env *Env) []Entry {
	community := env.community()
	if community == nil {
		return nil
	}
	entries := make([]Entry, 0, len(community.ChatCategories))
	for _, category := range community.ChatCategories {
		entry := Entry{Title: category.Name, Expanded: true}
		for _, channel := range category.Channels {
			child := Entry{
				Title:    channel.Name,
				Target:   "/chat/" + strconv.Itoa(channel.ID),
				Updated:  channel.Unread,
				LeftIcon: IconChat,
			}
			if channel.TopicID != 0 {
				child.Rules = []Rule{RequireTopicAccess(channel.TopicID)}
			}
			entry.Children = append(entry.Children, child)
		}
		entries = append(entries, entry)
	}
	return entries
}

package types

import (
	"sort"
	"strings"
)

type Topic struct {
	ID                int    `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	Description       string `json:"description,omitempty" yaml:"description,omitempty"`
	FeaturedInSidebar bool   `json:"featured_in_sidebar" yaml:"featured_in_sidebar"`
	Order             int    `json:"order" yaml:"order"`
	Archived          bool   `json:"archived,omitempty" yaml:"archived,omitempty"`
	TokenGated        bool   `json:"token_gated,omitempty" yaml:"token_gated,omitempty"`
	Unread            bool   `json:"unread,omitempty" yaml:"unread,omitempty"`
}

// FeaturedTopics returns non-archived topics marked for the sidebar ordered
// by Order, then by name.
func FeaturedTopics(topics []Topic) []Topic {
	out := make([]Topic, 0, len(topics))
	for _, topic := range topics {
		if topic.FeaturedInSidebar && !topic.Archived && strings.TrimSpace(topic.Name) != "" {
			out = append(out, topic)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type Membership struct {
	GroupID   int   `json:"group_id" yaml:"group_id"`
	TopicIDs  []int `json:"topic_ids" yaml:"topic_ids"`
	IsAllowed bool  `json:"is_allowed" yaml:"is_allowed"`
}

// TopicAccess reports whether memberships grant access to a gated topic.
// A topic no group gates is open to everyone.
func TopicAccess(memberships []Membership, topicID int) bool {
	gated := false
	for _, membership := range memberships {
		for _, id := range membership.TopicIDs {
			if id != topicID {
				continue
			}
			gated = true
			if membership.IsAllowed {
				return true
			}
		}
	}
	return !gated
}

package types

type Community struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	Base           string         `json:"base,omitempty" yaml:"base,omitempty"`
	ChainNodeID    int            `json:"chain_node_id,omitempty" yaml:"chain_node_id,omitempty"`
	SnapshotSpaces []string       `json:"snapshot_spaces,omitempty" yaml:"snapshot_spaces,omitempty"`
	Tokenized      bool           `json:"tokenized,omitempty" yaml:"tokenized,omitempty"`
	Contracts      []Contract     `json:"contracts,omitempty" yaml:"contracts,omitempty"`
	ChatCategories []ChatCategory `json:"chat_categories,omitempty" yaml:"chat_categories,omitempty"`
}

func (c *Community) HasSnapshot() bool {
	return c != nil && len(c.SnapshotSpaces) > 0
}

type Contract struct {
	ID        int      `json:"id" yaml:"id"`
	Address   string   `json:"address" yaml:"address"`
	Nickname  string   `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	Templates []string `json:"templates,omitempty" yaml:"templates,omitempty"`
}

func (c Contract) Title() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.Address
}

type ChatCategory struct {
	Name     string        `json:"name" yaml:"name"`
	Channels []ChatChannel `json:"channels,omitempty" yaml:"channels,omitempty"`
}

type ChatChannel struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	TopicID int    `json:"topic_id,omitempty" yaml:"topic_id,omitempty"`
	Unread  bool   `json:"unread,omitempty" yaml:"unread,omitempty"`
}

package types

type User struct {
	Address         string `json:"address,omitempty" yaml:"address,omitempty"`
	LoggedIn        bool   `json:"logged_in" yaml:"logged_in"`
	Admin           bool   `json:"admin,omitempty" yaml:"admin,omitempty"`
	Moderator       bool   `json:"moderator,omitempty" yaml:"moderator,omitempty"`
	SiteAdmin       bool   `json:"site_admin,omitempty" yaml:"site_admin,omitempty"`
	JoinedCommunity bool   `json:"joined_community,omitempty" yaml:"joined_community,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && (u.Admin || u.SiteAdmin)
}

func (u *User) IsAdminOrMod() bool {
	return u != nil && (u.Admin || u.SiteAdmin || u.Moderator)
}

func (u *User) IsLoggedIn() bool {
	return u != nil && u.LoggedIn
}

// CommunityData is everything the sidebar reads about one community. Any
// field is nil until its query resolves.
type CommunityData struct {
	Community   *Community   `json:"community,omitempty" yaml:"community,omitempty"`
	Topics      []Topic      `json:"topics,omitempty" yaml:"topics,omitempty"`
	Memberships []Membership `json:"memberships,omitempty" yaml:"memberships,omitempty"`
	User        *User        `json:"user,omitempty" yaml:"user,omitempty"`
}

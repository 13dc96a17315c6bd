package sidebar

import (
	"context"

	"commonwealth/internal/logging"
	"commonwealth/internal/routes"
	"commonwealth/internal/toggletree"
	"commonwealth/internal/types"
)

type Icon string

const (
	IconNone     Icon = ""
	IconLock     Icon = "🔒"
	IconExternal Icon = "↗"
	IconNew      Icon = "●"
	IconStar     Icon = "★"
	IconChat     Icon = "#"
	IconGear     Icon = "⚙"
)

type Action func(ctx context.Context) error

type SubSection struct {
	Title            string
	Target           string
	Path             toggletree.Path
	IsActive         bool
	IsVisible        bool
	IsUpdated        bool
	HasDefaultToggle bool
	ContainsChildren bool
	Toggled          bool
	OnClick          Action
	RightIcon        Icon
	LeftIcon         Icon
}

// Section is a top-level row of a family. Sections with DisplayData are
// collapsible and Toggled holds their stored expanded state.
type Section struct {
	Title            string
	Target           string
	Path             toggletree.Path
	IsActive         bool
	IsVisible        bool
	IsUpdated        bool
	HasDefaultToggle bool
	ContainsChildren bool
	Toggled          bool
	DisplayData      []SubSection
	OnClick          Action
	RightIcon        Icon
	LeftIcon         Icon
}

type Group struct {
	Title      string
	Kind       toggletree.Kind
	StorageKey string
	Collapsed  bool
	OnToggle   Action
	Sections   []Section
}

type RouteMatcher interface {
	Matches(patterns ...string) bool
}

type FlagSource interface {
	Enabled(name string) bool
}

type Navigator interface {
	Navigate(target string, opts ...routes.NavigateOption) string
}

type MenuResetter interface {
	ResetMenu()
}

// Env carries the collaborators a builder reads from. Data may be nil or
// partially filled while queries are loading.
type Env struct {
	CommunityID string
	Data        *types.CommunityData
	Routes      RouteMatcher
	Flags       FlagSource
	Nav         Navigator
	Menu        MenuResetter
	Trees       *toggletree.Store
	Logger      logging.Logger
}

func (e *Env) community() *types.Community {
	if e == nil || e.Data == nil {
		return nil
	}
	return e.Data.Community
}

func (e *Env) user() *types.User {
	if e == nil || e.Data == nil {
		return nil
	}
	return e.Data.User
}

func (e *Env) topics() []types.Topic {
	if e == nil || e.Data == nil {
		return nil
	}
	return e.Data.Topics
}

func (e *Env) memberships() []types.Membership {
	if e == nil || e.Data == nil {
		return nil
	}
	return e.Data.Memberships
}

func (e *Env) flag(name string) bool {
	return e != nil && e.Flags != nil && e.Flags.Enabled(name)
}

func (e *Env) matches(patterns ...string) bool {
	if e == nil || e.Routes == nil || len(patterns) == 0 {
		return false
	}
	return e.Routes.Matches(patterns...)
}

func (e *Env) logger() logging.Logger {
	if e == nil || e.Logger == nil {
		return logging.Nop()
	}
	return e.Logger
}

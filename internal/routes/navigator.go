package routes

import (
	"strings"
	"sync"
)

const maxRedirectHops = 8

// GlobalRoutes are top-level pages that are not community scoped.
var GlobalRoutes = []string{
	"/communities",
	"/dashboard",
	"/explore",
	"/leaderboard",
	"/notifications",
	"/notification-settings",
	"/profile",
	"/rewards",
	"/quests",
	"/contests",
	"/createCommunity",
}

// Redirect rewrites From to To, carrying captured params across. Paths
// matching any Except pattern are left alone.
type Redirect struct {
	From   string
	To     string
	Except []string
}

// DefaultRedirects send bare community roots to their discussions index.
func DefaultRedirects() []Redirect {
	return []Redirect{
		{From: "/:scope", To: "/:scope/discussions", Except: GlobalRoutes},
		{From: "/:scope/discussions/:topic/all", To: "/:scope/discussions/:topic"},
	}
}

// Resolve applies the first matching redirect repeatedly until none match.
func Resolve(path string, redirects []Redirect) string {
	path = Clean(path)
	for hop := 0; hop < maxRedirectHops; hop++ {
		next := path
		for _, redirect := range redirects {
			if MatchAny(path, redirect.Except...) {
				continue
			}
			if params, ok := Match(redirect.From, path); ok {
				next = Expand(redirect.To, params)
				break
			}
		}
		if next == path {
			return path
		}
		path = next
	}
	return path
}

type NavigateOption func(*navigateOptions)

type navigateOptions struct {
	community string
	replace   bool
}

// InCommunity prefixes the target with "/<id>" unless it already has it.
func InCommunity(id string) NavigateOption {
	return func(o *navigateOptions) {
		o.community = strings.TrimSpace(id)
	}
}

// Replace swaps the current entry instead of pushing a new one.
func Replace() NavigateOption {
	return func(o *navigateOptions) {
		o.replace = true
	}
}

type Navigator struct {
	mu        sync.Mutex
	current   string
	history   []string
	redirects []Redirect
	listeners map[int]func(string)
	nextID    int
}

func NewNavigator(start string, redirects []Redirect) *Navigator {
	n := &Navigator{redirects: redirects, listeners: map[int]func(string){}}
	n.current = Resolve(start, redirects)
	return n
}

func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) Matches(patterns ...string) bool {
	return MatchAny(n.Current(), patterns...)
}

func (n *Navigator) Navigate(target string, opts ...NavigateOption) string {
	options := navigateOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	path := Clean(target)
	if options.community != "" && !scopedTo(path, options.community) {
		path = Clean("/" + options.community + path)
	}
	path = Resolve(path, n.redirects)

	n.mu.Lock()
	if path == n.current {
		n.mu.Unlock()
		return path
	}
	if !options.replace {
		n.history = append(n.history, n.current)
	}
	n.current = path
	listeners := n.snapshotListeners()
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(path)
	}
	return path
}

// scopedTo reports whether path already has the form /<community>/<page>.
// A lone segment is a page name even when it equals the community id.
func scopedTo(path, community string) bool {
	parts := splitPath(path)
	return len(parts) >= 2 && parts[0] == community
}

func (n *Navigator) Back() bool {
	n.mu.Lock()
	if len(n.history) == 0 {
		n.mu.Unlock()
		return false
	}
	last := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.current = last
	listeners := n.snapshotListeners()
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(last)
	}
	return true
}

func (n *Navigator) Subscribe(fn func(string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

func (n *Navigator) snapshotListeners() []func(string) {
	out := make([]func(string), 0, len(n.listeners))
	for _, fn := range n.listeners {
		out = append(out, fn)
	}
	return out
}

package routes

import "testing"

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		ok      bool
		params  Params
	}{
		{"/:scope/discussions", "/abc/discussions", true, Params{"scope": "abc"}},
		{"/:scope/discussions", "/abc/discussions/", true, Params{"scope": "abc"}},
		{"/:scope/discussions", "/abc/overview", false, nil},
		{"/:scope/discussions/:topic", "/abc/discussions/General", true, Params{"scope": "abc", "topic": "General"}},
		{"/:scope/discussions/:topic", "/abc/discussions", false, nil},
		{"/:scope/admin/*", "/abc/admin", true, Params{"scope": "abc", "*": ""}},
		{"/:scope/admin/*", "/abc/admin/topics/new", true, Params{"scope": "abc", "*": "topics/new"}},
		{"/:scope/members", "/abc/members?tab=all", true, Params{"scope": "abc"}},
		{"/", "/", true, Params{}},
	}
	for _, tc := range cases {
		params, ok := Match(tc.pattern, tc.path)
		if ok != tc.ok {
			t.Fatalf("Match(%q, %q) ok=%v want %v", tc.pattern, tc.path, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if len(params) != len(tc.params) {
			t.Fatalf("Match(%q, %q) params=%v want %v", tc.pattern, tc.path, params, tc.params)
		}
		for key, want := range tc.params {
			if params[key] != want {
				t.Fatalf("Match(%q, %q) param %s=%q want %q", tc.pattern, tc.path, key, params[key], want)
			}
		}
	}
}

func TestResolveRedirects(t *testing.T) {
	redirects := DefaultRedirects()
	if got := Resolve("/abc", redirects); got != "/abc/discussions" {
		t.Fatalf("unexpected redirect: %s", got)
	}
	if got := Resolve("abc//discussions/General/all", redirects); got != "/abc/discussions/General" {
		t.Fatalf("unexpected redirect: %s", got)
	}
	if got := Resolve("/abc/overview", redirects); got != "/abc/overview" {
		t.Fatalf("unexpected redirect: %s", got)
	}
	loop := []Redirect{{From: "/a", To: "/b"}, {From: "/b", To: "/a"}}
	if got := Resolve("/a", loop); got != "/a" && got != "/b" {
		t.Fatalf("unexpected loop result: %s", got)
	}
}

func TestNavigatorPrefixesCommunity(t *testing.T) {
	nav := NewNavigator("/abc", DefaultRedirects())
	if nav.Current() != "/abc/discussions" {
		t.Fatalf("unexpected start: %s", nav.Current())
	}
	var seen []string
	unsubscribe := nav.Subscribe(func(path string) { seen = append(seen, path) })

	if got := nav.Navigate("/overview", InCommunity("abc")); got != "/abc/overview" {
		t.Fatalf("unexpected navigation: %s", got)
	}
	if got := nav.Navigate("/abc/members", InCommunity("abc")); got != "/abc/members" {
		t.Fatalf("expected existing prefix to be kept: %s", got)
	}
	if !nav.Matches("/:scope/members", "/:scope/snapshot/*") {
		t.Fatalf("expected members route to match")
	}
	if !nav.Back() || nav.Current() != "/abc/overview" {
		t.Fatalf("unexpected back: %s", nav.Current())
	}
	unsubscribe()
	nav.Navigate("/communities")
	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications before unsubscribe, got %v", seen)
	}
}

func TestNavigatorPrefixesPageNamedLikeCommunity(t *testing.T) {
	nav := NewNavigator("/proposals", DefaultRedirects())
	if got := nav.Navigate("/proposals", InCommunity("proposals")); got != "/proposals/proposals" {
		t.Fatalf("expected page to be scoped under the community, got %s", got)
	}
	if got := nav.Navigate("/proposals/members", InCommunity("proposals")); got != "/proposals/members" {
		t.Fatalf("expected existing prefix to be kept: %s", got)
	}
}

func TestNavigatorReplaceAndNoop(t *testing.T) {
	nav := NewNavigator("/abc/discussions", nil)
	nav.Navigate("/abc/discussions")
	if nav.Back() {
		t.Fatalf("navigating to the current path should not push history")
	}
	nav.Navigate("/abc/overview", Replace())
	if nav.Back() {
		t.Fatalf("replace should not push history")
	}
	if nav.Current() != "/abc/overview" {
		t.Fatalf("unexpected current: %s", nav.Current())
	}
}

func TestResolveLeavesGlobalRoutes(t *testing.T) {
	for _, path := range GlobalRoutes {
		if got := Resolve(path, DefaultRedirects()); got != path {
			t.Fatalf("expected %s to stay put, got %s", path, got)
		}
	}
}

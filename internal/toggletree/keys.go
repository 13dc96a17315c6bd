package toggletree

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindAdmin        Kind = "admin"
	KindDiscussions  Kind = "discussions"
	KindGovernance   Kind = "governance"
	KindChat         Kind = "chat"
	KindApps         Kind = "apps"
	KindFun          Kind = "fun"
	KindExplore      Kind = "explore"
	KindContracts    Kind = "contracts"
	KindSinglePlayer Kind = "single-player"
)

const (
	treeKeySuffix  = "-toggle-tree"
	groupKeySuffix = "-toggled"
)

func Kinds() []Kind {
	return []Kind{
		KindDiscussions,
		KindGovernance,
		KindChat,
		KindContracts,
		KindApps,
		KindFun,
		KindExplore,
		KindAdmin,
		KindSinglePlayer,
	}
}

func ParseKind(raw string) (Kind, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, kind := range Kinds() {
		if string(kind) == raw {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown tree kind %q", raw)
}

// StorageKey is "<communityId>-<kind>-toggle-tree".
func StorageKey(communityID string, kind Kind) string {
	return communityID + "-" + string(kind) + treeKeySuffix
}

// GroupToggleKey is "<title>-toggled", the single-boolean collapse memory
// for a top-level group.
func GroupToggleKey(title string) string {
	return title + groupKeySuffix
}

// ParseStorageKey splits a StorageKey back into its community and kind.
func ParseStorageKey(key string) (string, Kind, bool) {
	rest, ok := strings.CutSuffix(key, treeKeySuffix)
	if !ok {
		return "", "", false
	}
	for _, kind := range Kinds() {
		community, ok := strings.CutSuffix(rest, "-"+string(kind))
		if ok && community != "" {
			return community, kind, true
		}
	}
	return "", "", false
}

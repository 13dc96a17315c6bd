package app

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type rowSource []*sidebarRow

func (s rowSource) String(i int) string {
	row := s[i]
	if row.section != "" {
		return row.section + " " + row.title
	}
	return row.title
}

func (s rowSource) Len() int {
	return len(s)
}

// filterRows ranks rows against query, best match first. An empty query
// returns nil so callers fall back to the tree view.
func filterRows(rows []*sidebarRow, query string) []*sidebarRow {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	matches := fuzzy.FindFrom(query, rowSource(rows))
	out := make([]*sidebarRow, 0, len(matches))
	for _, match := range matches {
		out = append(out, rows[match.Index])
	}
	return out
}

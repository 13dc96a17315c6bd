package app

import (
	tea "charm.land/bubbletea/v2"

	"commonwealth/internal/types"
)

type dataLoadedMsg struct {
	data *types.CommunityData
	err  error
}

type flagsChangedMsg struct {
	values map[string]bool
}

func FlagsChanged(values map[string]bool) tea.Msg {
	return flagsChangedMsg{values: values}
}

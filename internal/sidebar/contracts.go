package sidebar

import (
	"net/url"
	"strconv"

	"commonwealth/internal/toggletree"
)

const FlagProposalTemplates = "proposalTemplates"

func ContractsFamily() Family {
	return Family{
		Kind:    toggletree.KindContracts,
		Title:   "Contracts",
		Rules:   []Rule{RequireFlag(FlagProposalTemplates), RequireCommunity()},
		Entries: contractEntries,
	}
}

func contractEntries(env *Env) []Entry {
	community := env.community()
	if community == nil {
		return nil
	}
	entries := make([]Entry, 0, len(community.Contracts)+1)
	for _, contract := range community.Contracts {
		base := "/contracts/" + strconv.Itoa(contract.ID)
		entry := Entry{Title: contract.Title(), Target: base}
		for _, template := range contract.Templates {
			entry.Children = append(entry.Children, Entry{
				Title:  template,
				Target: base + "/templates/" + url.PathEscape(template),
			})
		}
		entries = append(entries, entry)
	}
	entries = append(entries, Entry{
		Title:     "Manage Contracts",
		Target:    "/contracts",
		Rules:     []Rule{RequireAdmin()},
		RightIcon: IconGear,
	})
	return entries
}

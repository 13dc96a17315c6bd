package app

import (
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone/v2"
	"github.com/mattn/go-runewidth"

	"commonwealth/internal/sidebar"
)

const iconCellWidth = 2

type sidebarRowKind int

const (
	rowGroup sidebarRowKind = iota
	rowSection
	rowSubSection
)

type sidebarRow struct {
	kind        sidebarRowKind
	group       string
	section     string
	title       string
	target      string
	active      bool
	updated     bool
	collapsible bool
	expanded    bool
	leftIcon    sidebar.Icon
	rightIcon   sidebar.Icon
	onClick     sidebar.Action
	children    []string
}

func (r *sidebarRow) FilterValue() string {
	return r.title
}

func (r *sidebarRow) key() string {
	switch r.kind {
	case rowGroup:
		return "g:" + r.group
	case rowSection:
		return "s:" + r.group + "/" + r.title
	default:
		return "c:" + r.group + "/" + r.section + "/" + r.title
	}
}

func (r *sidebarRow) zoneID() string {
	return "row:" + r.key()
}

// buildSidebarRows flattens groups into visible rows. Collapsed groups hide
// their sections; sections whose stored state is false hide their children.
func buildSidebarRows(groups []sidebar.Group) []*sidebarRow {
	rows := make([]*sidebarRow, 0, len(groups)*4)
	for _, group := range groups {
		rows = append(rows, &sidebarRow{
			kind:        rowGroup,
			group:       group.Title,
			title:       group.Title,
			collapsible: group.OnToggle != nil,
			expanded:    !group.Collapsed,
			onClick:     group.OnToggle,
			children:    sectionTitles(group.Sections),
		})
		if group.Collapsed {
			continue
		}
		for _, section := range group.Sections {
			rows = append(rows, sectionRow(group.Title, section))
			if !section.ContainsChildren || !section.Toggled {
				continue
			}
			for _, sub := range section.DisplayData {
				rows = append(rows, subSectionRow(group.Title, section.Title, sub))
			}
		}
	}
	return rows
}

// allSectionRows lists every section and sub-section regardless of collapse
// state; the filter searches these.
func allSectionRows(groups []sidebar.Group) []*sidebarRow {
	var rows []*sidebarRow
	for _, group := range groups {
		for _, section := range group.Sections {
			rows = append(rows, sectionRow(group.Title, section))
			for _, sub := range section.DisplayData {
				rows = append(rows, subSectionRow(group.Title, section.Title, sub))
			}
		}
	}
	return rows
}

func sectionRow(group string, section sidebar.Section) *sidebarRow {
	return &sidebarRow{
		kind:        rowSection,
		group:       group,
		title:       section.Title,
		target:      section.Target,
		active:      section.IsActive,
		updated:     section.IsUpdated,
		collapsible: section.ContainsChildren,
		expanded:    section.Toggled,
		leftIcon:    section.LeftIcon,
		rightIcon:   section.RightIcon,
		onClick:     section.OnClick,
		children:    subSectionTitles(section.DisplayData),
	}
}

func sectionTitles(sections []sidebar.Section) []string {
	out := make([]string, 0, len(sections))
	for _, section := range sections {
		out = append(out, section.Title)
	}
	return out
}

func subSectionTitles(subs []sidebar.SubSection) []string {
	out := make([]string, 0, len(subs))
	for _, sub := range subs {
		out = append(out, sub.Title)
	}
	return out
}

func subSectionRow(group, section string, sub sidebar.SubSection) *sidebarRow {
	return &sidebarRow{
		kind:      rowSubSection,
		group:     group,
		section:   section,
		title:     sub.Title,
		target:    sub.Target,
		active:    sub.IsActive,
		updated:   sub.IsUpdated,
		leftIcon:  sub.LeftIcon,
		rightIcon: sub.RightIcon,
		onClick:   sub.OnClick,
	}
}

func rowsToItems(rows []*sidebarRow) []list.Item {
	items := make([]list.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row)
	}
	return items
}

type sidebarDelegate struct {
	hoverKey string
	zones    *zone.Manager
}

func (d *sidebarDelegate) Height() int {
	return 1
}

func (d *sidebarDelegate) Spacing() int {
	return 0
}

func (d *sidebarDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d *sidebarDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(*sidebarRow)
	if !ok {
		return
	}
	line := truncateToWidth(renderRowText(row), m.Width())
	style := rowStyle(row)
	if index == m.Index() {
		style = selectedStyle
	} else if d.hoverKey != "" && d.hoverKey == row.key() {
		style = style.Inherit(hoverStyle)
	}
	out := style.Render(line)
	if d.zones != nil {
		out = d.zones.Mark(row.zoneID(), out)
	}
	fmt.Fprint(w, out)
}

func renderRowText(row *sidebarRow) string {
	var b strings.Builder
	switch row.kind {
	case rowGroup:
		b.WriteString(expandMarker(row, "  "))
		b.WriteString(strings.ToUpper(row.title))
		return b.String()
	case rowSection:
		b.WriteString("  ")
		b.WriteString(expandMarker(row, "  "))
	default:
		b.WriteString("      ")
	}
	b.WriteString(iconCell(row.leftIcon))
	b.WriteString(row.title)
	if row.updated {
		b.WriteString(" " + string(sidebar.IconNew))
	}
	if row.rightIcon != sidebar.IconNone {
		b.WriteString(" " + string(row.rightIcon))
	}
	return b.String()
}

func expandMarker(row *sidebarRow, blank string) string {
	if !row.collapsible {
		return blank
	}
	if row.expanded {
		return "▾ "
	}
	return "▸ "
}

// iconCell pads icons to a fixed cell width so titles line up whether the
// icon is narrow, wide, or absent.
func iconCell(icon sidebar.Icon) string {
	if icon == sidebar.IconNone {
		return ""
	}
	return runewidth.FillRight(string(icon), iconCellWidth) + " "
}

func rowStyle(row *sidebarRow) lipgloss.Style {
	switch row.kind {
	case rowGroup:
		return groupStyle
	case rowSection:
		if row.active {
			return sectionActiveStyle
		}
		if row.updated {
			return updatedStyle
		}
		return sectionStyle
	default:
		if row.active {
			return subActiveStyle
		}
		if row.updated {
			return updatedStyle
		}
		return subSectionStyle
	}
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return ansi.Cut(text, 0, width-1) + "…"
}

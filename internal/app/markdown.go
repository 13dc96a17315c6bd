package app

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	xansi "github.com/charmbracelet/x/ansi"
)

type markdownRendererKey struct {
	width int
	style string
}

var (
	rendererMu sync.Mutex
	renderers  = map[markdownRendererKey]*glamour.TermRenderer{}
)

func renderMarkdown(input string, width int, style string) string {
	input = strings.TrimRight(input, "\n")
	if input == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := getRenderer(width, style)
	if r == nil {
		return input
	}
	out, err := r.Render(input)
	if err != nil {
		return input
	}
	out = strings.TrimRight(out, "\n")
	out = xansi.Hardwrap(out, width, true)
	return strings.TrimRight(out, "\n")
}

func getRenderer(width int, style string) *glamour.TermRenderer {
	if style == "" {
		style = "dark"
	}
	rendererMu.Lock()
	defer rendererMu.Unlock()
	key := markdownRendererKey{width: width, style: style}
	if r, ok := renderers[key]; ok && r != nil {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = r
	return r
}

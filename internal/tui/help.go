package tui

import (
	"strconv"
	"strings"
	"sync"

	"todobar-cli/internal/docs"

	"github.com/charmbracelet/glamour"
)

var (
	helpMu sync.Mutex
	// Cache renderers by style+width; building one can query the terminal.
	helpRenderers = map[string]*glamour.TermRenderer{}
)

func renderHelp(width int) string {
	body, ok := docs.Get("keys")
	if !ok {
		return "no help available"
	}
	if width < 20 {
		width = 20
	}
	if width > 80 {
		width = 80
	}

	helpMu.Lock()
	defer helpMu.Unlock()
	key := markdownStyle() + ":" + strconv.Itoa(width)
	r := helpRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			// Avoid WithAutoStyle(): it can block waiting on terminal queries.
			glamour.WithStandardStyle(markdownStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return body
		}
		helpRenderers[key] = rr
		r = rr
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return strings.TrimRight(out, "\n")
}

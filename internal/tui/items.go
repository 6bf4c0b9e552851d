package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/artspot/internal/model"
	"github.com/Makepad-fr/artspot/internal/ui"
)

// listItem adapts an artwork to bubbles/list.Item
type listItem struct {
	art      model.Artwork
	found    bool
	ranked   bool
	distance float64
}

func (i listItem) TitleText() string {
	t := ui.Current()
	box := t.BoxUnfound
	if i.found {
		box = t.BoxFound
	}
	return fmt.Sprintf("%s %s", box, i.art.Title)
}

func (i listItem) DescText() string {
	var parts []string
	if i.ranked {
		parts = append(parts, ui.Miles(i.distance))
	} else if i.art.Position != nil {
		parts = append(parts, ui.Current().Pin+" "+i.art.Position.String())
	} else {
		parts = append(parts, "no location")
	}
	for _, p := range []string{i.art.Artist, i.art.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return i.DescText() }
func (i listItem) FilterValue() string {
	return i.art.Title + " " + i.art.Artist + " " + i.art.City
}

// itemDelegate renders a title line and a muted detail line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnfound)
	title := it.art.Title
	if it.found {
		box = t.Success.Render(t.BoxFound)
		title = t.FoundText.Render(title)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(t.Cursor)
	}
	fmt.Fprintf(w, "%s%s %s\n", prefix, box, title)
	fmt.Fprintf(w, "    %s", t.Muted.Render(it.DescText()))
}

func mapItems(arts []model.Artwork, isFound func(string) bool) []list.Item {
	out := make([]list.Item, 0, len(arts))
	for _, a := range arts {
		out = append(out, listItem{art: a, found: isFound(a.ID)})
	}
	return out
}

func rankedItems(ranked []model.RankedArtwork, isFound func(string) bool) []list.Item {
	out := make([]list.Item, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, listItem{art: r.Artwork, found: isFound(r.ID), ranked: true, distance: r.Distance})
	}
	return out
}

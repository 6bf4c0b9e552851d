// Package tui is the interactive browser: a map view of every artwork grouped
// by location, a ranked results view, inline search and mark-found.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/artspot/internal/app"
	"github.com/Makepad-fr/artspot/internal/model"
	"github.com/Makepad-fr/artspot/internal/ui"
)

type view int

const (
	mapView view = iota
	resultsView
)

type foundMsg struct{ id string }

type searchMsg struct {
	res app.Result
	err error
}

type modelTUI struct {
	ctx     context.Context
	session *app.Session
	timeout time.Duration
	list    list.Model
	view    view

	// last search, kept only until the next one
	results []model.RankedArtwork
	origin  string

	// inline search
	searching bool
	pending   bool
	ti        textinput.Model

	status    string
	statusErr bool
	detail    *model.Artwork

	foundCh chan string
	stop    func()

	width, height int
}

var (
	searchBind = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search"))
	foundBind  = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "mark found"))
	openBind   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	viewBind   = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "map/results"))
)

func newModel(ctx context.Context, s *app.Session, timeout time.Duration) modelTUI {
	l := list.New(mapItems(s.MapOrder(), s.IsFound), itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("artwork", "artworks")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{searchBind, foundBind, openBind, viewBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{searchBind, foundBind, openBind, viewBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = `Postcode, address or "lat,lng"`
	ti.CharLimit = 120

	// found events reach the view through the session's listener, not a direct call
	ch := make(chan string, 16)
	unsub := s.OnFound(func(id string) {
		select {
		case ch <- id:
		default:
		}
	})

	m := modelTUI{
		ctx:     ctx,
		session: s,
		timeout: timeout,
		list:    l,
		ti:      ti,
		foundCh: ch,
		stop: func() {
			unsub()
			close(ch)
		},
	}
	m.refreshTitle()
	m.resize()
	return m
}

// Run starts the Bubble Tea program and blocks until the user quits.
// Each search is bounded by searchTimeout; zero means no bound.
func Run(ctx context.Context, s *app.Session, searchTimeout time.Duration) error {
	m := newModel(ctx, s, searchTimeout)
	defer m.stop()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func waitForFound(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		id, ok := <-ch
		if !ok {
			return nil
		}
		return foundMsg{id: id}
	}
}

func (m modelTUI) runSearch(query string) tea.Cmd {
	ctx, s, timeout := m.ctx, m.session, m.timeout
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := s.Search(ctx, query, 0)
		return searchMsg{res: res, err: err}
	}
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return waitForFound(m.foundCh) }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.resize()
		return m, nil

	case foundMsg:
		m.refreshItems()
		return m, waitForFound(m.foundCh)

	case searchMsg:
		m.pending = false
		if x.err != nil {
			m.setStatus(x.err.Error(), true)
			return m, nil
		}
		m.results = x.res.Artworks
		m.origin = x.res.Origin.String()
		m.view = resultsView
		m.refreshItems()
		m.list.Select(0)
		m.setStatus(fmt.Sprintf("%d artworks near %s", len(m.results), m.origin), false)
		return m, nil
	}

	// search mode
	if m.searching {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch x.String() {
			case "enter":
				q := strings.TrimSpace(m.ti.Value())
				if q == "" {
					m.setStatus(app.ErrEmptyQuery.Error(), true)
					return m, nil
				}
				m.searching = false
				m.pending = true
				m.ti.Blur()
				m.resize()
				m.setStatus("searching "+q+"...", false)
				return m, m.runSearch(q)
			case "esc":
				m.searching = false
				m.ti.SetValue("")
				m.ti.Blur()
				m.resize()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// let the list own keys while its filter prompt is open
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if x, ok := msg.(tea.KeyMsg); ok {
		if m.detail != nil {
			switch x.String() {
			case "esc", "enter", "q":
				m.detail = nil
			}
			return m, nil
		}
		switch x.String() {
		case "q", "esc":
			return m, tea.Quit
		case "s":
			m.searching = true
			m.ti.SetValue("")
			m.resize()
			return m, m.ti.Focus()
		case "tab":
			if m.view == mapView && m.results == nil {
				m.setStatus("search first: press s", false)
				return m, nil
			}
			if m.view == mapView {
				m.view = resultsView
			} else {
				m.view = mapView
			}
			m.refreshItems()
			m.list.Select(0)
			return m, nil
		case "f":
			m.markSelected()
			return m, nil
		case "enter":
			m.openSelected()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *modelTUI) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m *modelTUI) markSelected() {
	it, ok := m.selected()
	if !ok {
		return
	}
	if m.view != mapView {
		m.setStatus("mark artworks found from the map view (tab)", false)
		return
	}
	changed, err := m.session.MarkFound(it.art.ID)
	switch {
	case err != nil:
		m.setStatus("save: "+err.Error(), true)
	case !changed:
		m.setStatus("already found: "+it.art.Title, false)
	default:
		d, total := m.session.Progress()
		m.setStatus(fmt.Sprintf("found %s (%d/%d)", it.art.Title, d, total), false)
	}
}

func (m *modelTUI) openSelected() {
	it, ok := m.selected()
	if !ok {
		return
	}
	a, err := m.session.Open(it.art.ID)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.detail = &a
}

func (m *modelTUI) refreshItems() {
	idx := m.list.Index()
	var items []list.Item
	if m.view == resultsView {
		items = rankedItems(m.results, m.session.IsFound)
	} else {
		items = mapItems(m.session.MapOrder(), m.session.IsFound)
	}
	m.list.SetItems(items)
	if idx < len(items) {
		m.list.Select(idx)
	}
	m.refreshTitle()
}

func (m *modelTUI) refreshTitle() {
	t := ui.Current()
	d, total := m.session.Progress()
	label := "Street art map"
	if m.view == resultsView {
		label = "Nearest to " + m.origin
	}
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		label,
		t.Success.Render("✔"), d,
		t.Pending.Render("•"), total-d,
		t.Accent.Render("Total"), total,
	)
}

func (m *modelTUI) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *modelTUI) resize() {
	w, h := m.width, m.height
	if w == 0 || h == 0 {
		w, h = 80, 24
	}
	listHeight := h - 5
	if m.searching {
		listHeight = h - 9
	}
	if listHeight < 4 {
		listHeight = 4
	}
	m.list.SetSize(w-4, listHeight)
}

func (m modelTUI) View() string {
	t := ui.Current()
	content := m.list.View()

	if m.searching {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		content += "\n" + bar.Render("Find street art near\n"+m.ti.View())
	}
	if m.status != "" {
		style := t.Muted
		if m.statusErr {
			style = t.Error
		}
		content += "\n" + style.Render(m.status)
	}
	if m.detail != nil {
		content = detailView(*m.detail)
	}
	return ui.PanelString(content)
}

func detailView(a model.Artwork) string {
	t := ui.Current()
	lines := []string{t.Title.Render(a.Title), ""}
	add := func(label, v string) {
		if v != "" {
			lines = append(lines, fmt.Sprintf("%s %s", t.Muted.Render(label+":"), v))
		}
	}
	add("Artist", a.Artist)
	add("Medium", a.Medium)
	add("Date", a.Date)
	add("City", a.City)
	if a.Position != nil {
		add("Location", a.Position.String())
	}
	add("Image", a.Image)
	add("Link", a.Link)
	if a.Description != "" {
		lines = append(lines, "", a.Description)
	}
	lines = append(lines, "", t.Muted.Render("esc to close"))
	return strings.Join(lines, "\n")
}

// internal/tui/browser.go
//
// Interactive module browser. It follows the same Elm-style loop as every
// bubbletea program: messages come in through Update, View renders state.
//
// The list shows units found under the anchor first, then everything the
// registry knows. Enter resolves the highlighted name and shows its symbols.

package tui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/kingrea/sqeezz/internal/module"
	"github.com/kingrea/sqeezz/internal/resolver"
)

type browserState int

const (
	stateList   browserState = iota // Picking a module
	stateDetail                     // Showing a resolved handle
)

const (
	logPanelLines = 5
	previewWidth  = 60
)

// unitItem implements list.Item for a resolvable name.
type unitItem struct {
	name   string
	origin string
}

func (i unitItem) Title() string       { return i.name }
func (i unitItem) Description() string { return i.origin }
func (i unitItem) FilterValue() string { return i.name }

type resolvedMsg struct {
	name   string
	handle *module.Handle
	err    error
}

// Browser is the bubbletea model for the module browser.
type Browser struct {
	resolver *resolver.Resolver
	list     list.Model
	state    browserState
	current  *module.Handle
	failed   string
	errText  string
	width    int
	height   int

	// resolving is set while a Resolve command is in flight.
	resolving bool
}

// NewBrowser lists every name r can resolve.
func NewBrowser(r *resolver.Resolver) (*Browser, error) {
	if r == nil {
		return nil, fmt.Errorf("tui: resolver is required")
	}
	discovered, err := r.Discover()
	if err != nil {
		return nil, err
	}
	items := make([]list.Item, 0, len(discovered))
	for _, name := range discovered {
		items = append(items, unitItem{name: name, origin: "anchor · " + r.Anchor()})
	}
	for _, name := range r.Registry().Names() {
		items = append(items, unitItem{name: name, origin: "registry"})
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "⬡ MODULES"
	menu.SetShowStatusBar(false)
	return &Browser{resolver: r, list: menu, state: stateList}, nil
}

func (b *Browser) Init() tea.Cmd {
	return nil
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.list.SetSize(max(0, msg.Width-6), max(0, msg.Height-logPanelLines-6))
		return b, nil

	case resolvedMsg:
		b.state = stateDetail
		b.resolving = false
		if msg.err == nil && (msg.handle == nil || !msg.handle.Loaded()) {
			msg.err = fmt.Errorf("%s is still loading", msg.name)
		}
		if msg.err != nil {
			b.current = nil
			b.failed = msg.name
			b.errText = msg.err.Error()
		} else {
			b.current = msg.handle
			b.failed = ""
			b.errText = ""
		}
		return b, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return b, tea.Quit
		}
		if b.state == stateList && b.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q":
			return b, tea.Quit
		case "esc":
			if b.state == stateDetail {
				b.state = stateList
				return b, nil
			}
		case "enter":
			if b.state == stateList {
				if b.resolving {
					return b, nil
				}
				cmd := b.resolveSelected()
				b.resolving = cmd != nil
				return b, cmd
			}
		}
	}

	if b.state != stateList {
		return b, nil
	}
	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

func (b *Browser) resolveSelected() tea.Cmd {
	item, ok := b.list.SelectedItem().(unitItem)
	if !ok {
		return nil
	}
	r := b.resolver
	return func() tea.Msg {
		h, err := r.Resolve(item.name)
		return resolvedMsg{name: item.name, handle: h, err: err}
	}
}

func (b *Browser) View() string {
	var main string
	switch b.state {
	case stateDetail:
		main = b.renderDetail()
	default:
		main = b.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, b.renderLogPanel())
}

func (b *Browser) renderDetail() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	hint := muted.Render("esc back · q quit")
	if b.current == nil {
		failure := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render(b.errText)
		return lipgloss.JoinVertical(lipgloss.Left, title.Render(b.failed), failure, "", hint)
	}
	h := b.current
	lines := []string{
		title.Render(h.Name()),
		muted.Render(fmt.Sprintf("source: %s", h.Source())),
	}
	if h.Path() != "" {
		lines = append(lines, muted.Render(fmt.Sprintf("path:   %s", h.Path())))
	}
	lines = append(lines, "")
	if h.Len() == 0 {
		lines = append(lines, muted.Render("(no exported symbols)"))
	}
	for _, name := range h.Names() {
		value, _ := h.Lookup(name)
		lines = append(lines, fmt.Sprintf("  %-24s %s", name, describeValue(value)))
	}
	lines = append(lines, "", hint)
	return lipgloss.NewStyle().Width(max(20, b.width-4)).Render(strings.Join(lines, "\n"))
}

func (b *Browser) renderLogPanel() string {
	lines, total := b.resolver.Journal().Tail(logPanelLines)
	if total == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("Journal (%d entries)", total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, head, body))
}

// describeValue renders a one-line preview of a symbol.
func describeValue(v reflect.Value) string {
	if !v.IsValid() {
		return "<invalid>"
	}
	if v.Kind() == reflect.Func {
		return v.Type().String()
	}
	if !v.CanInterface() {
		return v.Type().String()
	}
	preview := strings.Join(strings.Fields(fmt.Sprintf("%v", v.Interface())), " ")
	preview = ansi.Truncate(preview, previewWidth, "…")
	return fmt.Sprintf("%s = %s", v.Type(), preview)
}

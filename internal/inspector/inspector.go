// Package inspector is a read-only TUI over the daemon's scene graph:
// it polls GET_TREE over IPC and renders the monitor → workspace →
// container → window hierarchy. It never issues a mutating command, so
// watching it cannot perturb the state it displays.
package inspector

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termtile/internal/hub"
	"github.com/1broseidon/termtile/internal/ipc"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	monitorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	workspaceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	containerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("247"))
	windowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	focusedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	rectStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tickMsg time.Time

type treeMsg struct {
	tree []hub.TreeNode
	err  error
}

type model struct {
	client   *ipc.Client
	interval time.Duration

	tree    []hub.TreeNode
	lastErr error
	paused  bool

	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// Run opens the inspector and blocks until the user quits.
func Run(client *ipc.Client, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	m := model{client: client, interval: interval}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch, m.tick())
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) fetch() tea.Msg {
	tree, err := m.client.GetTree()
	return treeMsg{tree: tree, err: err}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetch
		case " ", "space":
			m.paused = !m.paused
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := m.height - 3 // header + divider + help bar
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = contentHeight
		}
		m.viewport.SetContent(m.renderTree())
		return m, nil

	case tickMsg:
		if m.paused {
			return m, m.tick()
		}
		return m, tea.Batch(m.fetch, m.tick())

	case treeMsg:
		m.tree = msg.tree
		m.lastErr = msg.err
		if m.ready {
			m.viewport.SetContent(m.renderTree())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := titleStyle.Render(" termtile inspector")
	if m.paused {
		header += helpStyle.Render("  [paused]")
	}
	divider := rectStyle.Render(strings.Repeat("─", max(m.width, 1)))
	help := helpStyle.Render(" j/k:scroll  space:pause  r:refresh  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, divider, m.viewport.View(), help)
}

func (m model) renderTree() string {
	if m.lastErr != nil {
		return errorStyle.Render(fmt.Sprintf(" daemon unreachable: %v", m.lastErr))
	}
	if len(m.tree) == 0 {
		return helpStyle.Render(" (empty scene graph)")
	}

	var sb strings.Builder
	for _, n := range m.tree {
		renderNode(&sb, n, 0)
	}
	return sb.String()
}

func renderNode(sb *strings.Builder, n hub.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)

	style := windowStyle
	switch n.Kind {
	case "monitor":
		style = monitorStyle
	case "workspace":
		style = workspaceStyle
	case "container":
		style = containerStyle
	}

	marker := "  "
	label := n.Label
	if n.Focused {
		marker = focusedStyle.Render("● ")
		label = focusedStyle.Render(label)
	} else {
		label = style.Render(label)
	}

	rect := rectStyle.Render(fmt.Sprintf("  %d,%d %dx%d", n.Rect.X, n.Rect.Y, n.Rect.Width, n.Rect.Height))
	fmt.Fprintf(sb, "%s%s%s%s\n", indent, marker, label, rect)

	for _, c := range n.Children {
		renderNode(sb, c, depth+1)
	}
}

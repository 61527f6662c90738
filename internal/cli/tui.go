package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/walletgraph/pkg/activity"
	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/explorer"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

const (
	defaultListHeight = 15
	logPanelLines     = 6
)

// =============================================================================
// Messages
// =============================================================================

type (
	// seededMsg reports the end of an initial load.
	seededMsg struct{ err error }

	// opDoneMsg reports an expand or load-more.
	opDoneMsg struct {
		op      string
		address string
		result  explorer.Result
	}

	// detailsMsg carries the details panel data for an address.
	detailsMsg struct {
		address string
		details *txgraph.Details
		err     error
	}
)

// =============================================================================
// ExplorerModel - Interactive graph exploration
// =============================================================================

// ExplorerModel is the bubbletea model of the terminal explorer. The graph
// state lives in the controller's store; the model only keeps what is
// specific to the terminal (cursor, input line, details panel).
type ExplorerModel struct {
	ctx  context.Context
	ctrl *explorer.Controller
	log  *activity.Log

	Cursor int
	Offset int
	Height int

	input     string
	inputMode bool
	busy      int
	status    string

	details     *txgraph.Details
	detailsAddr string
	detailsErr  string
}

// NewExplorerModel creates the model. With an empty seed it starts in
// address input mode.
func NewExplorerModel(ctx context.Context, ctrl *explorer.Controller, log *activity.Log, seed string) ExplorerModel {
	m := ExplorerModel{
		ctx:       ctx,
		ctrl:      ctrl,
		log:       log,
		Height:    defaultListHeight,
		input:     seed,
		inputMode: seed == "",
	}
	if !m.inputMode {
		m.busy = 1
	}
	return m
}

func (m ExplorerModel) Init() tea.Cmd {
	if m.inputMode {
		return nil
	}
	return m.seed(m.input)
}

func (m ExplorerModel) seed(address string) tea.Cmd {
	return func() tea.Msg {
		return seededMsg{err: m.ctrl.Submit(m.ctx, address)}
	}
}

func (m ExplorerModel) expand(address string) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "expand", address: address, result: m.ctrl.ExpandIfNeeded(m.ctx, address)}
	}
}

func (m ExplorerModel) loadMore(address string) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "load more", address: address, result: m.ctrl.LoadMore(m.ctx, address)}
	}
}

func (m ExplorerModel) fetchDetails(address string) tea.Cmd {
	return func() tea.Msg {
		d, err := m.ctrl.Details(m.ctx, address)
		return detailsMsg{address: address, details: d, err: err}
	}
}

func (m ExplorerModel) view() explorer.View {
	return m.ctrl.View()
}

func (m ExplorerModel) selectedID() string {
	nodes := m.view().Graph.Nodes
	if m.Cursor < 0 || m.Cursor >= len(nodes) {
		return ""
	}
	return nodes[m.Cursor].ID
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)

	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-logPanelLines-10, 5)

	case seededMsg:
		m.busy--
		m.Cursor, m.Offset = 0, 0
		m.details, m.detailsAddr, m.detailsErr = nil, "", ""
		if msg.err != nil {
			m.status = errs.UserMessage(msg.err)
		}

	case opDoneMsg:
		m.busy--
		m.status = describeResult(msg)

	case detailsMsg:
		m.busy--
		m.detailsAddr = msg.address
		m.details = msg.details
		m.detailsErr = ""
		if msg.err != nil {
			m.detailsErr = errs.UserMessage(msg.err)
		}
	}
	return m, nil
}

func (m ExplorerModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.inputMode = false
	case tea.KeyEnter:
		m.inputMode = false
		m.status = ""
		m.busy++
		return m, m.seed(m.input)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m ExplorerModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.view().Graph.Nodes)

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < count-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "/":
		m.inputMode = true
		m.input = ""
	case "enter", "e":
		if id := m.selectedID(); id != "" {
			m.ctrl.Select(id)
			m.busy++
			return m, m.expand(id)
		}
	case "m":
		if id := m.selectedID(); id != "" {
			m.busy++
			return m, m.loadMore(id)
		}
	case "d":
		if id := m.selectedID(); id != "" {
			m.ctrl.Select(id)
			m.busy++
			return m, m.fetchDetails(id)
		}
	case "r":
		m.ctrl.Relayout()
		m.status = "Layout reset"
	case "c":
		m.ctrl.Clear()
		m.Cursor, m.Offset = 0, 0
		m.details, m.detailsAddr, m.detailsErr = nil, "", ""
		m.status = "Cleared"
	}
	return m, nil
}

func describeResult(msg opDoneMsg) string {
	r := msg.result
	switch r.Kind {
	case explorer.KindOK:
		return fmt.Sprintf("%s %s: %d new addresses", msg.op, msg.address, r.NewNodes)
	case explorer.KindSkipped:
		return fmt.Sprintf("%s already expanded", msg.address)
	case explorer.KindNoMorePages:
		return fmt.Sprintf("No more pages for %s", msg.address)
	default:
		return fmt.Sprintf("%s %s failed: %s", msg.op, msg.address, errs.UserMessage(r.Err))
	}
}

// =============================================================================
// Rendering
// =============================================================================

func (m ExplorerModel) View() string {
	v := m.view()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("walletgraph"))
	if v.Seed != "" {
		b.WriteString("  " + StyleValue.Render(v.Seed))
	}
	if m.busy > 0 || v.IsLoading {
		b.WriteString("  " + StyleWarning.Render("loading..."))
	}
	b.WriteString("\n")

	if m.inputMode {
		b.WriteString(StyleHighlight.Render("Address: ") + m.input + "█\n")
		b.WriteString(listDimStyle.Render("enter: explore  esc: cancel"))
		b.WriteString("\n")
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  m more  d details  r relayout  c clear  / new address  q quit"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case v.IsError:
		b.WriteString(styleIconError.Render(iconError) + " " + v.Error + "\n")
	case len(v.Graph.Nodes) == 0:
		b.WriteString(listDimStyle.Render("No graph yet") + "\n")
	default:
		list := m.renderNodes(v)
		if side := m.renderDetails(); side != "" {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", side))
		} else {
			b.WriteString(list)
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(styleIconInfo.Render(iconInfo) + " " + m.status + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderLog())
	return b.String()
}

func (m ExplorerModel) renderNodes(v explorer.View) string {
	in, out := v.Graph.Degrees()
	nodes := v.Graph.Nodes
	end := min(m.Offset+m.Height, len(nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		more := ""
		if v.HasMore[n.ID] {
			more = "more"
		}
		rows = append(rows, []string{cursor, n.ID, fmt.Sprint(in[n.ID]), fmt.Sprint(out[n.ID]), more})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Address", "In", "Out", "Pages").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case idx < len(nodes) && nodes[idx].ID == v.Seed:
				return listNormalStyle.Bold(true)
			case col >= 2:
				return listDimStyle
			default:
				return listNormalStyle
			}
		})

	return t.Render() + "\n" + listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d edges", m.Cursor+1, len(nodes), len(v.Graph.Edges)))
}

func (m ExplorerModel) renderDetails() string {
	if m.detailsAddr == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Details") + "\n")
	b.WriteString(StyleDim.Render(m.detailsAddr) + "\n\n")
	if m.detailsErr != "" {
		b.WriteString(StyleError.Render(m.detailsErr))
		return panelStyle.Render(b.String())
	}

	d := m.details
	fmt.Fprintf(&b, "%s %s\n", StyleDim.Render("received"), StyleNumber.Render(formatSats(d.TotalReceived)))
	fmt.Fprintf(&b, "%s     %s\n", StyleDim.Render("sent"), StyleNumber.Render(formatSats(d.TotalSent)))
	fmt.Fprintf(&b, "%s  %s\n\n", StyleDim.Render("balance"), StyleNumber.Render(formatSats(d.Balance)))
	for _, tx := range d.Txs {
		fmt.Fprintf(&b, "%s %s\n", shortID(tx.Hash), StyleDim.Render(fmt.Sprintf("%d conf", tx.Confirmations)))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m ExplorerModel) renderLog() string {
	entries := m.log.Entries()
	if len(entries) > logPanelLines {
		entries = entries[len(entries)-logPanelLines:]
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Log") + "\n")
	if len(entries) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
	}
	for _, e := range entries {
		line := e.Timestamp.Format("15:04:05") + " " + e.Message
		if e.Level == activity.LevelError {
			b.WriteString("  " + StyleError.Render(line) + "\n")
		} else {
			b.WriteString("  " + listDimStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// formatSats renders an amount in satoshis as BTC with eight decimals.
func formatSats(sats int64) string {
	sign := ""
	if sats < 0 {
		sign = "-"
		sats = -sats
	}
	return fmt.Sprintf("%s%d.%08d BTC", sign, sats/100_000_000, sats%100_000_000)
}

// shortID abbreviates a transaction hash to its first and last eight characters.
func shortID(id string) string {
	if len(id) <= 19 {
		return id
	}
	return id[:8] + "…" + id[len(id)-8:]
}

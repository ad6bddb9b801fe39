package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tymlipari/MRECards/internal/protocol"
)

// serverMsg wraps a decoded message from the table server.
type serverMsg struct {
	msg interface{}
}

// disconnectedMsg signals that the server connection dropped.
type disconnectedMsg struct{}

// Model is the Bubble Tea model for the table client.
type Model struct {
	conn *Conn
	name string

	logViewport viewport.Model
	actionInput textinput.Model

	gameLog   []string
	players   []protocol.Player
	holeCards []string
	board     []string
	pot       int
	seat      int
	pending   *protocol.ActionRequest

	width       int
	height      int
	initialized bool
	quitting    bool
}

// NewModel creates the client UI model for an established connection.
func NewModel(conn *Conn, name string) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "fold, check, call, raise 20"
	ti.Focus()
	ti.CharLimit = 40
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	return &Model{
		conn:        conn,
		name:        name,
		logViewport: vp,
		actionInput: ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForServer())
}

// waitForServer reads the next server message as a command.
func (m *Model) waitForServer() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.conn.Messages()
		if !ok {
			return disconnectedMsg{}
		}
		return serverMsg{msg: msg}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.initialized = true

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			_ = m.conn.Close()
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			m.submitAction()
		}

	case serverMsg:
		m.handleServer(msg.msg)
		cmds = append(cmds, m.waitForServer())

	case disconnectedMsg:
		m.appendLog(errorStyle.Render("Disconnected from server"))
		m.pending = nil
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submitAction parses the typed action and sends it when a prompt is
// pending.
func (m *Model) submitAction() {
	input := strings.TrimSpace(m.actionInput.Value())
	m.actionInput.SetValue("")
	if input == "" {
		return
	}
	if m.pending == nil {
		m.appendLog(infoStyle.Render("Not your turn"))
		return
	}

	fields := strings.Fields(strings.ToLower(input))
	action := fields[0]
	amount := 0
	if action == "raise" {
		if len(fields) < 2 {
			m.appendLog(errorStyle.Render("Usage: raise <amount>"))
			return
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			m.appendLog(errorStyle.Render("Raise amount must be a positive number"))
			return
		}
		amount = n
	}

	if err := m.conn.Act(action, amount); err != nil {
		m.appendLog(errorStyle.Render("Send failed: " + err.Error()))
		return
	}
	m.pending = nil
}

// handleServer folds a server message into the display state.
func (m *Model) handleServer(msg interface{}) {
	switch e := msg.(type) {
	case *protocol.Welcome:
		m.seat = e.Seat
		m.players = e.Players
		m.appendLog(fmt.Sprintf("Seated as %s at seat %d with %d chips", e.Name, e.Seat, e.Chips))

	case *protocol.PlayerJoined:
		m.players = append(m.players, protocol.Player{Seat: e.Seat, Name: e.Name, Chips: e.Chips})
		m.appendLog(fmt.Sprintf("%s joined at seat %d", e.Name, e.Seat))

	case *protocol.PlayerLeft:
		m.removePlayer(e.Name)
		m.appendLog(fmt.Sprintf("%s left the table", e.Name))

	case *protocol.HandStart:
		m.holeCards = e.HoleCards
		m.board = nil
		m.pot = 0
		m.seat = e.YourSeat
		m.players = e.Players
		m.appendLog(handInfoStyle.Render(fmt.Sprintf(
			"--- New hand: blinds %d/%d, dealer seat %d ---", e.SmallBlind, e.BigBlind, e.DealerSeat)))
		m.appendLog("Your cards: " + renderCards(e.HoleCards))

	case *protocol.ActionRequest:
		m.pending = e
		m.pot = e.Pot
		hint := strings.Join(e.ValidActions, ", ")
		if e.ToCall > 0 {
			hint += fmt.Sprintf(" (%d to call)", e.ToCall)
		}
		m.appendLog(actionsStyle.Render("Your turn: " + hint))

	case *protocol.PlayerAction:
		m.pot = e.Pot
		m.appendLog(fmt.Sprintf("%s: %s (pot %d)", e.Name, strings.ReplaceAll(e.Action, "_", " "), e.Pot))

	case *protocol.StreetChange:
		m.board = e.Board
		m.appendLog(handInfoStyle.Render(strings.ToUpper(e.Street)) + "  " + renderCards(e.Board))

	case *protocol.HandResult:
		m.board = e.Board
		m.pot = e.Pot
		for _, sh := range e.Showdown {
			line := fmt.Sprintf("%s shows %s", sh.Name, renderCards(sh.HoleCards))
			if sh.HandRank != "" {
				line += " (" + sh.HandRank + ")"
			}
			m.appendLog(line)
		}
		for _, w := range e.Winners {
			m.appendLog(handInfoStyle.Render(fmt.Sprintf("%s wins %d", w.Name, w.Amount)))
		}
		m.holeCards = nil
		m.pending = nil

	case *protocol.Error:
		m.appendLog(errorStyle.Render(e.Message))
	}
}

func (m *Model) removePlayer(name string) {
	for i, p := range m.players {
		if p.Name == name {
			m.players = append(m.players[:i], m.players[i+1:]...)
			break
		}
	}
	for i := range m.players {
		m.players[i].Seat = i
	}
}

func (m *Model) appendLog(line string) {
	m.gameLog = append(m.gameLog, line)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

func (m *Model) resizeViewport() {
	w := m.width - 4
	h := m.height - 10
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	m.logViewport.Width = w
	m.logViewport.Height = h
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.initialized {
		return "Connecting..."
	}

	header := headerStyle.Render(" " + m.name + " @ table ")

	status := fmt.Sprintf("Pot: %d", m.pot)
	if len(m.board) > 0 {
		status += "  Board: " + renderCards(m.board)
	}
	if len(m.holeCards) > 0 {
		status += "  Hand: " + renderCards(m.holeCards)
	}

	var seats []string
	for _, p := range m.players {
		entry := fmt.Sprintf("[%d] %s (%d)", p.Seat, p.Name, p.Chips)
		seats = append(seats, entry)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		status,
		infoStyle.Render(strings.Join(seats, "  ")),
		borderStyle.Render(m.logViewport.View()),
		m.actionInput.View(),
	)
}

// renderCards colors card strings by suit.
func renderCards(cards []string) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if strings.ContainsAny(c, "♥♦") {
			parts[i] = redCardStyle.Render(c)
		} else {
			parts[i] = blackCardStyle.Render(c)
		}
	}
	return strings.Join(parts, " ")
}

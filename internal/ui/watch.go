package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// EventMsg is sent when a new ledger event arrives on the live feed.
type EventMsg struct {
	Seq     uint64
	Type    string // "transfer" | "approval" | "initialized"
	From    string // truncated address
	To      string
	Value   string // formatted amount
	Symbol  string
	AtLocal string // HH:MM:SS
}

// StatusMsg updates the status bar of the live view.
type StatusMsg struct {
	Connected bool
	LastSeq   uint64
	ErrMsg    string
}

// WatchModel is the Bubble Tea model for the live event stream.
type WatchModel struct {
	Token    string
	Rows     []EventMsg
	Status   StatusMsg
	Frame    int
	Quitting bool
	cursor   int
}

type watchTickMsg struct{}

func watchSpinTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return watchTickMsg{}
	})
}

func (m WatchModel) Init() tea.Cmd { return watchSpinTick() }

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.Rows)-1 {
				m.cursor++
			}
		}

	case EventMsg:
		m.Rows = append(m.Rows, msg)
		// Keep the newest rows visible without unbounded growth.
		if len(m.Rows) > 200 {
			m.Rows = m.Rows[len(m.Rows)-200:]
		}
		m.Status.LastSeq = msg.Seq

	case StatusMsg:
		m.Status = msg

	case watchTickMsg:
		m.Frame++
		return m, watchSpinTick()
	}

	return m, nil
}

func (m WatchModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(fmt.Sprintf("●  %s — live events", m.Token)))
	sb.WriteString("\n")

	if len(m.Rows) == 0 {
		frame := spinnerFrames[m.Frame%len(spinnerFrames)]
		sb.WriteString(StyleMeta.Render(fmt.Sprintf("%s waiting for events… (q to quit)", frame)))
		sb.WriteString("\n")
	}

	for i, row := range m.Rows {
		line := renderEventRow(row)
		if i == m.cursor {
			line = StyleHeader.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	status := "disconnected"
	if m.Status.Connected {
		status = fmt.Sprintf("connected · seq %d", m.Status.LastSeq)
	}
	if m.Status.ErrMsg != "" {
		status += " · " + m.Status.ErrMsg
	}
	sb.WriteString(StyleMeta.Render(status + "  (↑↓ navigate, q quit)"))
	sb.WriteString("\n")
	return sb.String()
}

func renderEventRow(ev EventMsg) string {
	switch ev.Type {
	case "approval":
		return fmt.Sprintf("%s %s %s %s → %s  %s",
			StyleMeta.Render(ev.AtLocal),
			StyleWarning.Render("APPROVE "),
			StyleValue.Render(ev.Value+" "+ev.Symbol),
			StyleAddress.Render(ev.From),
			StyleAddress.Render(ev.To),
			StyleMeta.Render(fmt.Sprintf("#%d", ev.Seq)))
	case "initialized":
		return fmt.Sprintf("%s %s %s → %s  %s",
			StyleMeta.Render(ev.AtLocal),
			StyleSuccess.Render("GENESIS "),
			StyleValue.Render(ev.Value+" "+ev.Symbol),
			StyleAddress.Render(ev.To),
			StyleMeta.Render(fmt.Sprintf("#%d", ev.Seq)))
	default:
		return fmt.Sprintf("%s %s %s %s → %s  %s",
			StyleMeta.Render(ev.AtLocal),
			StyleSuccess.Render("TRANSFER"),
			StyleValue.Render(ev.Value+" "+ev.Symbol),
			StyleAddress.Render(ev.From),
			StyleAddress.Render(ev.To),
			StyleMeta.Render(fmt.Sprintf("#%d", ev.Seq)))
	}
}

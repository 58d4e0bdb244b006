// Package tui is a terminal front-end for a single local game session.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcoot/colormatch/internal/config"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/session"
)

// Model drives one session from the keyboard
type Model struct {
	session *session.Session
	rules   config.Rules
	keys    KeyMap
	cursor  model.Position
	snap    model.SessionSnapshot
	status  string
	err     error
	width   int
	height  int
}

// New creates a model over sess. The session may be ready or already playing.
func New(sess *session.Session, rules config.Rules) Model {
	m := Model{
		session: sess,
		rules:   rules,
		keys:    Keys,
	}
	m.refresh()
	if m.snap.Status == model.StatusReady {
		m.status = "Press space to start"
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Snapshot returns the state last rendered
func (m Model) Snapshot() model.SessionSnapshot {
	return m.snap
}

// Cursor returns the cell under the cursor
func (m Model) Cursor() model.Position {
	return m.cursor
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(0, 1)

	case key.Matches(msg, m.keys.Activate):
		m.activate()

	case key.Matches(msg, m.keys.Booster):
		kinds := model.AllBoosterKinds()
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(kinds) {
			m.armBooster(kinds[idx])
		}

	case key.Matches(msg, m.keys.Cancel):
		if m.snap.ActiveBooster != "" {
			m.apply(m.session.DisarmBooster(), "Booster disarmed")
		} else if m.snap.Selection != nil {
			m.apply(m.session.ClearSelection(), "")
		}

	case key.Matches(msg, m.keys.Pause):
		if m.snap.Status == model.StatusPaused {
			m.apply(m.session.Resume(), "Resumed")
		} else {
			m.apply(m.session.Pause(), "Paused, press p to resume")
		}

	case key.Matches(msg, m.keys.Next):
		m.apply(m.session.NextLevel(), "")
	case key.Matches(msg, m.keys.Restart):
		m.apply(m.session.RestartLevel(), "Level restarted")
	case key.Matches(msg, m.keys.Continue):
		m.apply(m.session.Continue(model.ContinueAd), "")
	}

	m.describeStatus()
	return m, nil
}

func (m *Model) moveCursor(dRow, dCol int) {
	size := len(m.snap.Grid)
	if size == 0 {
		return
	}
	m.cursor.Row = clamp(m.cursor.Row+dRow, 0, size-1)
	m.cursor.Col = clamp(m.cursor.Col+dCol, 0, size-1)
}

func (m *Model) activate() {
	if m.snap.Status == model.StatusReady {
		m.apply(m.session.StartLevel(), "")
		return
	}

	outcome, err := m.session.ActivateCell(m.cursor)
	if err != nil {
		m.apply(err, "")
		return
	}
	m.apply(nil, describeOutcome(outcome))
}

func (m *Model) armBooster(kind model.BoosterKind) {
	armed, err := m.session.ArmBooster(kind)
	msg := string(kind) + " disarmed"
	if armed {
		msg = string(kind) + " armed"
	}
	m.apply(err, msg)
}

// apply records the result of an action and re-reads the session
func (m *Model) apply(err error, message string) {
	if err != nil {
		m.err = err
		return
	}
	m.status = message
	m.refresh()
}

func (m *Model) refresh() {
	m.snap = m.session.Snapshot()
	m.moveCursor(0, 0)
}

// describeStatus overrides the status line for states that need a prompt
func (m *Model) describeStatus() {
	switch m.snap.Status {
	case model.StatusLevelComplete:
		m.status = fmt.Sprintf("Level %d complete! Press n for the next level", m.snap.Level)
	case model.StatusGameOver:
		m.status = "Out of moves! Press c to continue or r to restart"
	}
}

func describeOutcome(o *model.Outcome) string {
	switch o.Kind {
	case model.ActivationSwapped, model.ActivationBooster:
		if o.PointsGained > 0 {
			return fmt.Sprintf("+%d points", o.PointsGained)
		}
		return ""
	case model.ActivationSwapRejected:
		return "No match, swap reverted"
	default:
		return ""
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Color Match Frenzy"))
	b.WriteString("\n")
	b.WriteString(m.renderHUD())
	b.WriteString("\n\n")
	b.WriteString(m.renderBoard())
	b.WriteString("\n")
	b.WriteString(m.renderBoosters())

	if m.err != nil {
		b.WriteString(errorStyle.Render(errorText(m.err)))
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.renderHelp()))

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
	}
	return b.String()
}

func (m Model) renderHUD() string {
	fields := []string{
		labelStyle.Render("Level ") + hudStyle.Render(fmt.Sprint(m.snap.Level)),
		labelStyle.Render("Score ") + hudStyle.Render(fmt.Sprint(m.snap.Score)),
		labelStyle.Render("Moves ") + hudStyle.Render(fmt.Sprint(m.snap.MovesLeft)),
		labelStyle.Render("Goal ") + hudStyle.Render(fmt.Sprintf("%d%%/%d%%", m.snap.GoalProgress, m.rules.GoalPercentage)),
	}
	if m.snap.Status != model.StatusPlaying {
		fields = append(fields, hudStyle.Render(strings.ToUpper(string(m.snap.Status))))
	}
	return strings.Join(fields, "   ")
}

func (m Model) renderBoard() string {
	rows := make([]string, 0, len(m.snap.Grid))
	for _, row := range m.snap.Grid {
		cells := make([]string, 0, len(row))
		for _, tile := range row {
			pos := tile.Position()
			cursor := pos == m.cursor
			selected := m.snap.Selection != nil && *m.snap.Selection == pos
			cells = append(cells, tileStyle(tile, cursor, selected).Render(tileGlyph(tile, cursor, selected)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderBoosters() string {
	parts := make([]string, 0, len(model.AllBoosterKinds()))
	for i, kind := range model.AllBoosterKinds() {
		label := fmt.Sprintf("%d:%s x%d", i+1, kind, m.snap.Boosters.Count(kind))
		style := boosterStyle
		switch {
		case kind == m.snap.ActiveBooster:
			style = armedBoosterStyle
		case !m.snap.Boosters.Has(kind):
			style = emptyBoosterStyle
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderHelp() string {
	bindings := m.keys.ShortHelp()
	parts := make([]string, 0, len(bindings)+1)
	parts = append(parts, "arrows move")
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func errorText(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidStateForAction):
		return "Not now: " + err.Error()
	case errors.Is(err, model.ErrInsufficientBoosterCharges):
		return "No charges left for that booster"
	default:
		return err.Error()
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

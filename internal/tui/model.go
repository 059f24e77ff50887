package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/eatnsplit/internal/calculator"
	"github.com/mmynk/eatnsplit/internal/models"
)

// Focus is the part of the screen that receives keys.
type Focus int

const (
	FocusList Focus = iota
	FocusAdd
	FocusSplit
	FocusFilter
)

// Fields of the add form.
const (
	addFieldName = iota
	addFieldImage
)

// Fields of the split form.
const (
	splitFieldBill = iota
	splitFieldExpense
	splitFieldPayer
	splitFieldCount
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx          context.Context
	ledger       Ledger
	defaultImage string

	// Data
	friends    []*models.Friend
	selectedID string
	summary    calculator.Summary

	// UI state
	focus    Focus
	cursor   int
	filter   string
	showAdd  bool
	addField int
	addName  string
	addImage string

	splitField int
	bill       string
	expense    string
	payer      models.Payer

	width  int
	height int

	// Status
	statusMsg string
	err       error
}

// New creates a model over l. defaultImage prefills the add form.
func New(ctx context.Context, l Ledger, defaultImage string) Model {
	return Model{
		ctx:          ctx,
		ledger:       l,
		defaultImage: defaultImage,
		payer:        models.PayerUser,
		statusMsg:    "Loading friends...",
	}
}

// ledgerOp names the operation behind a ledgerMsg.
type ledgerOp int

const (
	opRefresh ledgerOp = iota
	opAdd
	opSelect
	opClear
	opSplit
)

// ledgerMsg carries the outcome of a ledger call and the snapshot read after it.
type ledgerMsg struct {
	op     ledgerOp
	snap   Snapshot
	status string
	err    error
}

func (m Model) Init() tea.Cmd {
	return m.run(opRefresh, func() (string, error) { return "", nil })
}

// run performs fn and then reads a fresh snapshot, all off the UI goroutine.
func (m Model) run(op ledgerOp, fn func() (string, error)) tea.Cmd {
	ctx, l := m.ctx, m.ledger
	return func() tea.Msg {
		status, err := fn()
		if err != nil {
			slog.Warn("Ledger operation failed", "op", op, "error", err)
			return ledgerMsg{op: op, err: err}
		}
		snap, err := l.Snapshot(ctx)
		if err != nil {
			return ledgerMsg{op: op, err: err}
		}
		return ledgerMsg{op: op, snap: snap, status: status}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ledgerMsg:
		return m.applyLedgerMsg(msg), nil
	}
	return m, nil
}

func (m Model) applyLedgerMsg(msg ledgerMsg) Model {
	if msg.err != nil {
		m.err = msg.err
		m.statusMsg = ""
		return m
	}

	m.err = nil
	m.friends = msg.snap.Friends
	m.summary = msg.snap.Summary
	previous := m.selectedID
	m.selectedID = msg.snap.SelectedID
	m.statusMsg = msg.status
	if msg.op == opRefresh && m.statusMsg == "" {
		m.statusMsg = fmt.Sprintf("%d friends", len(m.friends))
	}

	if m.selectedID != previous {
		m.resetSplitForm()
	}

	switch msg.op {
	case opAdd:
		m.showAdd = false
		m.focus = FocusList
	case opSelect:
		if m.selectedID != "" {
			m.focus = FocusSplit
		} else {
			m.focus = FocusList
		}
	case opClear, opSplit:
		m.focus = FocusList
	}

	m.clampCursor()
	return m
}

// handleKey routes keyboard input based on focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case FocusFilter:
		return m.handleFilterKey(msg)
	case FocusAdd:
		return m.handleAddKey(msg)
	case FocusSplit:
		return m.handleSplitKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleFriends()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Toggle):
		if m.cursor < len(visible) {
			m.showAdd = false
			return m, m.selectFriend(visible[m.cursor].ID)
		}

	case key.Matches(msg, keys.Add):
		m.showAdd = !m.showAdd
		if m.showAdd {
			m.openAddForm()
		}

	case key.Matches(msg, keys.Filter):
		m.focus = FocusFilter

	case key.Matches(msg, keys.Split):
		if m.selectedID != "" {
			m.focus = FocusSplit
		}

	case key.Matches(msg, keys.Clear):
		if m.selectedID != "" {
			return m, m.clearSelection()
		}
		m.filter = ""
		m.clampCursor()
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter = ""
		m.focus = FocusList
	case tea.KeyEnter:
		m.focus = FocusList
	case tea.KeyBackspace:
		m.filter = dropLastRune(m.filter)
	case tea.KeyRunes, tea.KeySpace:
		m.filter += string(msg.Runes)
	}
	m.cursor = 0
	return m, nil
}

func (m *Model) openAddForm() {
	m.focus = FocusAdd
	m.addField = addFieldName
	m.addName = ""
	m.addImage = m.defaultImage
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.showAdd = false
		m.focus = FocusList
	case tea.KeyTab:
		// name -> image -> list; the form stays open until toggled or submitted
		if m.addField == addFieldName {
			m.addField = addFieldImage
		} else {
			m.focus = FocusList
		}
	case tea.KeyShiftTab:
		m.addField = addFieldName
	case tea.KeyEnter:
		return m, m.addFriend()
	case tea.KeyBackspace:
		if m.addField == addFieldName {
			m.addName = dropLastRune(m.addName)
		} else {
			m.addImage = dropLastRune(m.addImage)
		}
	case tea.KeyRunes, tea.KeySpace:
		if m.addField == addFieldName {
			m.addName += string(msg.Runes)
		} else {
			m.addImage += string(msg.Runes)
		}
	}
	return m, nil
}

func (m *Model) resetSplitForm() {
	m.splitField = splitFieldBill
	m.bill = ""
	m.expense = ""
	m.payer = models.PayerUser
}

func (m Model) handleSplitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, m.clearSelection()
	case tea.KeyTab, tea.KeyDown:
		m.splitField = (m.splitField + 1) % splitFieldCount
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.splitField = (m.splitField + splitFieldCount - 1) % splitFieldCount
		return m, nil
	case tea.KeyEnter:
		return m, m.submitSplit()
	}

	if m.splitField == splitFieldPayer {
		switch msg.Type {
		case tea.KeySpace, tea.KeyLeft, tea.KeyRight:
			m.togglePayer()
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		if m.splitField == splitFieldBill {
			m.bill = dropLastRune(m.bill)
		} else {
			m.expense = dropLastRune(m.expense)
		}
	case tea.KeyRunes:
		if m.splitField == splitFieldBill {
			if next := m.bill + string(msg.Runes); isAmount(next) {
				m.bill = next
			}
		} else {
			m.typeExpense(m.expense + string(msg.Runes))
		}
	}
	return m, nil
}

// typeExpense accepts next unless it exceeds the bill, in which case the
// previous value stays.
func (m *Model) typeExpense(next string) {
	if !isAmount(next) {
		return
	}
	previous, _ := parseAmount(m.expense)
	attempted, _ := parseAmount(next)
	bill, _ := parseAmount(m.bill)
	if _, accepted := calculator.ClampExpense(previous, attempted, bill); accepted {
		m.expense = next
	}
}

func (m *Model) togglePayer() {
	if m.payer == models.PayerUser {
		m.payer = models.PayerFriend
	} else {
		m.payer = models.PayerUser
	}
}

func (m Model) selectFriend(id string) tea.Cmd {
	ctx, l := m.ctx, m.ledger
	return m.run(opSelect, func() (string, error) {
		_, err := l.SelectFriend(ctx, id)
		return "", err
	})
}

func (m Model) clearSelection() tea.Cmd {
	ctx, l := m.ctx, m.ledger
	return m.run(opClear, func() (string, error) {
		return "", l.ClearSelection(ctx)
	})
}

func (m Model) addFriend() tea.Cmd {
	ctx, l := m.ctx, m.ledger
	name, image := m.addName, m.addImage
	return m.run(opAdd, func() (string, error) {
		f, err := l.AddFriend(ctx, name, image)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %s", f.Name), nil
	})
}

func (m Model) submitSplit() tea.Cmd {
	ctx, l := m.ctx, m.ledger
	id := m.selectedID
	in := models.SplitInput{Payer: m.payer}
	if v, ok := parseAmount(m.bill); ok {
		in.BillTotal = &v
	}
	if v, ok := parseAmount(m.expense); ok {
		in.UserExpense = &v
	}
	return m.run(opSplit, func() (string, error) {
		f, _, err := l.SubmitSplit(ctx, id, in)
		if err != nil {
			return "", err
		}
		_, status := calculator.Status(*f)
		return status, nil
	})
}

// visibleFriends applies the filter to the roster.
func (m Model) visibleFriends() []*models.Friend {
	if strings.TrimSpace(m.filter) == "" {
		return m.friends
	}
	var out []*models.Friend
	for _, f := range m.friends {
		if matchesName(f.Name, m.filter) {
			out = append(out, f)
		}
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.visibleFriends())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selectedFriend() *models.Friend {
	for _, f := range m.friends {
		if f.ID == m.selectedID {
			return f
		}
	}
	return nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	sections := []string{renderHeader(&m), renderFriendList(&m)}
	if m.showAdd {
		sections = append(sections, renderAddForm(&m))
	}
	if f := m.selectedFriend(); f != nil {
		sections = append(sections, renderSplitForm(&m, f))
	}
	sections = append(sections, renderStatus(&m), renderFooter(&m))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func isAmount(s string) bool {
	if s == "" {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil && !strings.ContainsAny(s, "eE+-")
}

// parseAmount returns false for an empty field.
func parseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

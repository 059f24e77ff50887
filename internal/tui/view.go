package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/eatnsplit/internal/calculator"
	"github.com/mmynk/eatnsplit/internal/models"
)

func renderHeader(m *Model) string {
	sep := headerSepStyle.Render(" │ ")
	parts := []string{
		headerBrandStyle.Render("eat-'n-split"),
		headerMetaStyle.Render(fmt.Sprintf("%d friends", len(m.friends))),
		statusOwesYouStyle.Render("owed " + calculator.FormatAmount(m.summary.TotalOwed)),
		statusYouOweStyle.Render("owing " + calculator.FormatAmount(m.summary.TotalOwing)),
	}
	return headerBarStyle.Width(m.width).Render(strings.Join(parts, sep))
}

func renderFriendList(m *Model) string {
	style := panelStyle
	if m.focus == FocusList || m.focus == FocusFilter {
		style = panelActiveStyle
	}

	title := "Friends"
	if m.filter != "" || m.focus == FocusFilter {
		title = fmt.Sprintf("Friends / %s", m.filter)
		if m.focus == FocusFilter {
			title += "█"
		}
	}

	lines := []string{panelTitleStyle.Render(title)}
	visible := m.visibleFriends()
	if len(visible) == 0 {
		lines = append(lines, statusEvenStyle.Render("No friends match"))
	}
	for i, f := range visible {
		lines = append(lines, renderFriendRow(m, f, i == m.cursor))
	}
	return style.Width(m.width).Render(strings.Join(lines, "\n"))
}

func renderFriendRow(m *Model, f *models.Friend, atCursor bool) string {
	marker := "  "
	if atCursor && (m.focus == FocusList || m.focus == FocusFilter) {
		marker = cursorStyle.Render("> ")
	}

	state, status := calculator.Status(*f)
	var statusStyle lipgloss.Style
	switch state {
	case calculator.FriendOwes:
		statusStyle = statusOwesYouStyle
	case calculator.UserOwes:
		statusStyle = statusYouOweStyle
	default:
		statusStyle = statusEvenStyle
	}

	row := marker + friendNameStyle.Width(16).Render(f.Name) + statusStyle.Render(status)
	if f.ID == m.selectedID {
		row += selectedTagStyle.Render("  [close]")
		return friendRowSelectedStyle.Render(row)
	}
	return row
}

func renderAddForm(m *Model) string {
	style := panelStyle
	if m.focus == FocusAdd {
		style = panelActiveStyle
	}
	lines := []string{
		panelTitleStyle.Render("Add friend"),
		renderField("👫 Friend name", m.addName, m.focus == FocusAdd && m.addField == addFieldName),
		renderField("🌄 Image URL", m.addImage, m.focus == FocusAdd && m.addField == addFieldImage),
	}
	return style.Width(m.width).Render(strings.Join(lines, "\n"))
}

func renderSplitForm(m *Model, f *models.Friend) string {
	style := panelStyle
	focused := m.focus == FocusSplit
	if focused {
		style = panelActiveStyle
	}

	friendExpense := ""
	if bill, ok := parseAmount(m.bill); ok {
		expense, _ := parseAmount(m.expense)
		friendExpense = calculator.FormatAmount(calculator.FriendExpense(bill, expense))
	}

	you, them := "You", f.Name
	if m.payer == models.PayerUser {
		you = inputFocusedStyle.Render("[You]")
	} else {
		them = inputFocusedStyle.Render("[" + f.Name + "]")
	}

	payerLabel := "🤑 Who is paying"
	payerLine := labelStyle.Render(payerLabel) + you + " / " + them
	if focused && m.splitField == splitFieldPayer {
		payerLine = labelStyle.Render(payerLabel) + cursorStyle.Render("› ") + you + " / " + them
	}

	lines := []string{
		panelTitleStyle.Render("Split a bill with " + f.Name),
		renderField("💰 Bill value", m.bill, focused && m.splitField == splitFieldBill),
		renderField("🧍 Your expense", m.expense, focused && m.splitField == splitFieldExpense),
		labelStyle.Render("👫 "+f.Name+"'s expense") + derivedStyle.Render(friendExpense),
		payerLine,
	}
	return style.Width(m.width).Render(strings.Join(lines, "\n"))
}

func renderField(label, value string, focused bool) string {
	if focused {
		return labelStyle.Render(label) + inputFocusedStyle.Render("› "+value+"█")
	}
	return labelStyle.Render(label) + inputStyle.Render("  "+value)
}

func renderStatus(m *Model) string {
	if m.err != nil {
		return errorMsgStyle.Render(m.err.Error())
	}
	return statusMsgStyle.Render(m.statusMsg)
}

func renderFooter(m *Model) string {
	var hints []string
	switch m.focus {
	case FocusAdd:
		hints = []string{hint("tab", "next field"), hint("enter", "add"), hint("esc", "close")}
	case FocusSplit:
		hints = []string{hint("tab", "next field"), hint("space", "payer"), hint("enter", "split bill"), hint("esc", "close")}
	case FocusFilter:
		hints = []string{hint("enter", "keep filter"), hint("esc", "clear filter")}
	default:
		for _, b := range keys.shortHelp() {
			hints = append(hints, hint(b.Help().Key, b.Help().Desc))
		}
	}
	return footerStyle.Width(m.width).Render(strings.Join(hints, "  "))
}

func hint(k, desc string) string {
	return footerKeyStyle.Render(k) + " " + desc
}

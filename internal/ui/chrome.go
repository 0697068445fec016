package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// contentHeight is the number of rows available between header and footer.
func (m Model) contentHeight() int {
	h := m.height - 4
	if h < 1 {
		return 1
	}
	return h
}

func (m Model) viewTitle() string {
	switch m.currentView {
	case ViewFeed:
		return "Feed"
	case ViewThread:
		return "@" + m.thread.post.User.Username
	case ViewProfile:
		return "@" + m.profile.username
	case ViewLogin:
		return "Log in"
	case ViewRegister:
		return "Create account"
	case ViewCompose:
		return "New post"
	default:
		return ""
	}
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	identity := "anonymous"
	if user, ok := m.session.User(); ok {
		identity = "@" + user.Username
	}

	parts := []string{
		styles.Logo.Render("perch"),
		styles.Text.Render(m.viewTitle()),
		styles.MutedText.Render(identity),
	}
	if m.pollFailures > 0 {
		parts = append(parts, styles.WarningText.Render(fmt.Sprintf("offline (%d)", m.pollFailures)))
	}

	line := strings.Join(parts, styles.FaintText.Render("  ·  "))
	return styles.Header.Width(m.width).Render(line)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	if m.toast.visible() {
		return styles.Footer.Width(m.width).Render(m.toast.render(styles))
	}

	var hints []key.Binding
	switch m.currentView {
	case ViewFeed:
		hints = []key.Binding{m.keys.Like, m.keys.OpenThread, m.keys.OpenProfile, m.keys.Compose, m.keys.Refresh, m.keys.Help}
	case ViewThread:
		hints = []key.Binding{m.keys.Comment, m.keys.Reply, m.keys.Like, m.keys.Escape, m.keys.Help}
	case ViewProfile:
		hints = []key.Binding{m.keys.Follow, m.keys.Like, m.keys.OpenThread, m.keys.Escape, m.keys.Help}
	default:
		hints = []key.Binding{m.keys.Confirm, m.keys.Tab, m.keys.Escape}
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, fmt.Sprintf("%s %s", h.Help().Key, h.Help().Desc))
	}
	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{m.keys.Up, m.keys.Down, m.keys.Top, m.keys.Bottom, m.keys.Escape}},
		{"Feed", []key.Binding{m.keys.Like, m.keys.OpenThread, m.keys.OpenProfile, m.keys.Compose, m.keys.Refresh}},
		{"Thread", []key.Binding{m.keys.Comment, m.keys.Reply}},
		{"Profile", []key.Binding{m.keys.Follow}},
		{"Session", []key.Binding{m.keys.Login, m.keys.Logout}},
		{"Other", []key.Binding{m.keys.CycleTheme, m.keys.Help, m.keys.Quit}},
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, s := range sections {
		b.WriteString(styles.MutedText.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			b.WriteString(fmt.Sprintf("  %-10s %s\n",
				styles.Text.Render(bind.Help().Key),
				styles.FaintText.Render(bind.Help().Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Press any key to close"))
	return b.String()
}

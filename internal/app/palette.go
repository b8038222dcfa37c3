package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	appsync "github.com/nhle/taskgenius/internal/sync"
	"github.com/nhle/taskgenius/internal/ui/command"
	inviteview "github.com/nhle/taskgenius/internal/ui/invite"
)

// executeCommand handles a command from the command palette. Aliases
// have already been resolved by command.Parse.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	switch c.Name {
	case "refresh":
		return m.refresh(appsync.ReasonManual)

	case "quit":
		return m.quit()

	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil

	case "projects":
		if len(c.Args) > 0 {
			if !m.sess.signedIn {
				m.info("Sign in first")
				return nil
			}
			return m.selectProject(c.Args[0])
		}
		return m.openProjects()

	case "new":
		m.form.Show()
		return m.openForm()

	case "quick":
		m.currentView = ViewQuickAdd
		cmd := m.quickEntry.Focus()
		if len(c.Args) > 0 {
			m.quickEntry.SetValue(strings.Join(c.Args, " "))
		}
		return cmd

	case "invite":
		return m.openInvite()

	case "inbox":
		cmd := m.openInvite()
		return tea.Batch(cmd, func() tea.Msg { return inviteview.ScanMsg{} })

	case "mailbox":
		m.currentView = ViewSettings
		return m.configView.StartInbox(m.cfg)

	case "chat":
		if len(c.Args) > 0 {
			m.cfg.Workspace.ConversationID = c.Args[0]
			return tea.Batch(m.saveConfig(), m.openChat())
		}
		return m.openChat()

	case "users":
		if !m.sess.signedIn {
			m.info("Sign in first")
			return nil
		}
		return m.openUsers()

	case "delete-user":
		if !m.sess.user.IsOwner() {
			m.info("Only owners can delete users")
			return nil
		}
		if len(c.Args) == 0 {
			return m.openUsers()
		}
		return m.deleteUser(c.Args[0], c.Args[0])

	case "login":
		return m.openSettingsLogin("")

	case "logout":
		if !m.sess.signedIn {
			return nil
		}
		return m.logout()

	default:
		m.info(fmt.Sprintf("Unknown command %q", c.Name))
		return nil
	}
}

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rvega/almacen/internal/auth"
	"github.com/rvega/almacen/internal/inventory"
)

// Messages

// refreshMsg signals that controller state changed and the view should
// re-snapshot it.
type refreshMsg struct{}

type adviceDoneMsg struct{}

type loginDoneMsg struct{ err error }

type loggedOutMsg struct{}

// invalidatedMsg arrives when the session store broadcasts an invalidation,
// whether from a rejected request or a concurrent logout.
type invalidatedMsg struct{}

type noticeExpiredMsg struct{}

// Commands

func loadCmd(ctx context.Context, c *inventory.Controller) tea.Cmd {
	return func() tea.Msg {
		c.Load(ctx)
		return refreshMsg{}
	}
}

func commitEditCmd(ctx context.Context, c *inventory.Controller, displayID string) tea.Cmd {
	return func() tea.Msg {
		c.CommitEdit(ctx, displayID)
		return refreshMsg{}
	}
}

func confirmDeleteCmd(ctx context.Context, c *inventory.Controller) tea.Cmd {
	return func() tea.Msg {
		c.ConfirmDelete(ctx)
		return refreshMsg{}
	}
}

func submitAddCmd(ctx context.Context, c *inventory.Controller) tea.Cmd {
	return func() tea.Msg {
		c.SubmitAdd(ctx)
		return refreshMsg{}
	}
}

func adviceCmd(ctx context.Context, c *inventory.Controller) tea.Cmd {
	return func() tea.Msg {
		c.RequestAdvice(ctx)
		return adviceDoneMsg{}
	}
}

func loginCmd(ctx context.Context, s *auth.Session, email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: s.Login(ctx, email, password)}
	}
}

func logoutCmd(ctx context.Context, s *auth.Session) tea.Cmd {
	return func() tea.Msg {
		s.Logout(ctx)
		return loggedOutMsg{}
	}
}

// waitInvalidatedCmd blocks on the invalidation broadcast. The handler
// re-arms it after every delivery.
func waitInvalidatedCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return invalidatedMsg{}
	}
}

func noticeExpireCmd() tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}

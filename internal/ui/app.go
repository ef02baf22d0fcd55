package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rvega/almacen/internal/api"
	"github.com/rvega/almacen/internal/auth"
	"github.com/rvega/almacen/internal/inventory"
	"github.com/rvega/almacen/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewInventory
)

// noticeTTL is how long the transient add-success notice stays visible.
const noticeTTL = 4 * time.Second

const sessionExpiredMessage = "Your session expired. Sign in again."

// Options configures the UI.
type Options struct {
	Context     context.Context
	Session     *auth.Session
	Controller  *inventory.Controller
	Invalidated <-chan struct{}
	ThemeName   string
	PrefsPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	session     *auth.Session
	controller  *inventory.Controller
	invalidated <-chan struct{}
	prefsPath   string

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot inventory.Snapshot

	// Login form
	loginInputs   [2]textinput.Model // email, password
	loginFocusIdx int
	loginErr      string
	loggingIn     bool
	signingOut    bool

	// Inventory interaction state
	selectedRow int
	editingRow  string // displayID with the inline editor open, "" when browsing
	editInput   textinput.Model
	addInputs   [2]textinput.Model // name, quantity
	addFocusIdx int
	showAdvice  bool
	adviceBusy  bool
	noticeArmed bool

	// Help overlay
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Slate"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Width = 32
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 32
	password.EchoMode = textinput.EchoPassword

	edit := textinput.New()
	edit.CharLimit = 9
	edit.Width = 9
	edit.Prompt = ""

	addName := textinput.New()
	addName.Placeholder = "name"
	addName.CharLimit = 128
	addName.Width = 32

	addQuantity := textinput.New()
	addQuantity.Placeholder = "quantity"
	addQuantity.CharLimit = 9
	addQuantity.Width = 32

	m := Model{
		ctx:         ctx,
		session:     opts.Session,
		controller:  opts.Controller,
		invalidated: opts.Invalidated,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewLogin,
		loginInputs: [2]textinput.Model{email, password},
		editInput:   edit,
		addInputs:   [2]textinput.Model{addName, addQuantity},
	}
	if opts.Session != nil && opts.Session.Authenticated() {
		m.currentView = ViewInventory
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		textinput.Blink,
	}
	if m.invalidated != nil {
		cmds = append(cmds, waitInvalidatedCmd(m.invalidated))
	}
	if m.currentView == ViewInventory {
		cmds = append(cmds, loadCmd(m.ctx, m.controller))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case refreshMsg:
		return m.handleRefresh()

	case adviceDoneMsg:
		m.adviceBusy = false
		m.snapshot = m.controller.Snapshot()
		return m, nil

	case loginDoneMsg:
		return m.handleLoginDone(msg)

	case loggedOutMsg:
		m.signingOut = false
		m.resetLoginForm("")
		m.currentView = ViewLogin
		return m, nil

	case invalidatedMsg:
		return m.handleInvalidated()

	case noticeExpiredMsg:
		m.noticeArmed = false
		m.controller.ClearNotice()
		m.snapshot = m.controller.Snapshot()
		return m, nil
	}

	return m, nil
}

// handleRefresh re-reads controller state after an operation and reconciles
// the local interaction flags against it.
func (m Model) handleRefresh() (tea.Model, tea.Cmd) {
	m.snapshot = m.controller.Snapshot()

	// A commit that went through (or a reload that dropped the product)
	// closes the inline editor; a silently refused commit keeps it open.
	if m.editingRow != "" {
		if _, editing := m.snapshot.Edits[m.editingRow]; !editing {
			m.editingRow = ""
			m.editInput.Blur()
		}
	}

	// The add dialog closes on success; a validation or server failure
	// keeps it open with the error shown.
	if !m.snapshot.Adding && m.addInputs[0].Focused() {
		m.addInputs[0].Blur()
		m.addInputs[1].Blur()
	}

	if max := len(m.snapshot.Products) - 1; m.selectedRow > max {
		m.selectedRow = max
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}

	var cmd tea.Cmd
	if m.snapshot.Notice != "" && !m.noticeArmed {
		m.noticeArmed = true
		cmd = noticeExpireCmd()
	}
	return m, cmd
}

// handleInvalidated reacts to the session invalidation broadcast: any stored
// credentials are already gone, so the only job here is to land the user on
// the login view and keep listening.
func (m Model) handleInvalidated() (tea.Model, tea.Cmd) {
	cmd := waitInvalidatedCmd(m.invalidated)
	if m.signingOut {
		// An explicit logout is already being handled.
		return m, cmd
	}
	if m.currentView == ViewInventory {
		m.resetLoginForm(sessionExpiredMessage)
		m.currentView = ViewLogin
	}
	return m, cmd
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	if msg.err != nil {
		m.loginErr = authErrorMessage(msg.err)
		return m, nil
	}
	m.resetLoginForm("")
	m.currentView = ViewInventory
	m.selectedRow = 0
	return m, loadCmd(m.ctx, m.controller)
}

// authErrorMessage prefers the provider's own message over a generic one.
func authErrorMessage(err error) string {
	var authErr *auth.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return "Could not sign in. Try again."
}

func (m *Model) resetLoginForm(message string) {
	m.loginInputs[0].SetValue("")
	m.loginInputs[1].SetValue("")
	m.loginInputs[0].Focus()
	m.loginInputs[1].Blur()
	m.loginFocusIdx = 0
	m.loginErr = message
	m.loggingIn = false
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works, even mid-form.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help.
		m.showHelp = false
		return m, nil
	}

	if m.currentView == ViewLogin {
		return m.handleLoginKey(msg)
	}
	return m.handleInventoryKey(msg)
}

// handleLoginKey drives the two-field sign-in form.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.loginFocusIdx = (m.loginFocusIdx + 1) % len(m.loginInputs)
		for i := range m.loginInputs {
			if i == m.loginFocusIdx {
				m.loginInputs[i].Focus()
			} else {
				m.loginInputs[i].Blur()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.loggingIn {
			return m, nil
		}
		email := m.loginInputs[0].Value()
		password := m.loginInputs[1].Value()
		if email == "" || password == "" {
			m.loginErr = "Enter an email and a password."
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, loginCmd(m.ctx, m.session, email, password)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocusIdx], cmd = m.loginInputs[m.loginFocusIdx].Update(msg)
	return m, cmd
}

// handleInventoryKey processes keyboard input for the inventory view,
// dispatching to whichever interaction is active.
func (m Model) handleInventoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.snapshot.Adding:
		return m.handleAddKey(msg)
	case m.editingRow != "":
		return m.handleEditKey(msg)
	case m.snapshot.Confirming != "":
		return m.handleConfirmKey(msg)
	case m.showAdvice:
		return m.handleAdviceKey(msg)
	}
	return m.handleBrowseKey(msg)
}

// handleBrowseKey handles keys while no modal interaction is active.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.snapshot.Products)-1 {
			m.selectedRow++
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if n := len(m.snapshot.Products); n > 0 {
			m.selectedRow = n - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.selectedProduct(); ok {
			m.controller.RequestDelete(p.DisplayID)
			m.snapshot = m.controller.Snapshot()
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.controller.OpenAdd()
		m.snapshot = m.controller.Snapshot()
		m.addInputs[0].SetValue("")
		m.addInputs[1].SetValue("")
		m.addInputs[0].Focus()
		m.addInputs[1].Blur()
		m.addFocusIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.Advice):
		m.showAdvice = true
		m.adviceBusy = true
		return m, adviceCmd(m.ctx, m.controller)

	case key.Matches(msg, m.keys.Reload):
		return m, loadCmd(m.ctx, m.controller)

	case key.Matches(msg, m.keys.Logout):
		m.signingOut = true
		return m, logoutCmd(m.ctx, m.session)
	}

	return m, nil
}

// startEdit opens the inline quantity editor for the selected row, seeded
// with the value currently displayed.
func (m Model) startEdit() (tea.Model, tea.Cmd) {
	p, ok := m.selectedProduct()
	if !ok {
		return m, nil
	}
	m.editingRow = p.DisplayID
	m.editInput.SetValue(m.snapshot.DisplayedQuantity(p.DisplayID))
	m.editInput.CursorEnd()
	m.editInput.Focus()
	m.controller.SetEdit(p.DisplayID, m.editInput.Value())
	m.snapshot = m.controller.Snapshot()
	return m, nil
}

// handleEditKey drives the inline quantity editor. Every keystroke mirrors
// the input into the edit buffer so the rest of the app sees one source of
// truth.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.controller.DropEdit(m.editingRow)
		m.editingRow = ""
		m.editInput.Blur()
		m.snapshot = m.controller.Snapshot()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, commitEditCmd(m.ctx, m.controller, m.editingRow)
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.controller.SetEdit(m.editingRow, m.editInput.Value())
	m.snapshot = m.controller.Snapshot()
	return m, cmd
}

// handleConfirmKey drives the delete confirmation prompt.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, confirmDeleteCmd(m.ctx, m.controller)

	case key.Matches(msg, m.keys.Deny), key.Matches(msg, m.keys.Escape):
		m.controller.CancelDelete()
		m.snapshot = m.controller.Snapshot()
		return m, nil
	}
	return m, nil
}

// handleAddKey drives the add-product dialog.
func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.controller.CloseAdd()
		m.snapshot = m.controller.Snapshot()
		m.addInputs[0].Blur()
		m.addInputs[1].Blur()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.addFocusIdx = (m.addFocusIdx + 1) % len(m.addInputs)
		for i := range m.addInputs {
			if i == m.addFocusIdx {
				m.addInputs[i].Focus()
			} else {
				m.addInputs[i].Blur()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.controller.SetDraftName(m.addInputs[0].Value())
		m.controller.SetDraftQuantity(m.addInputs[1].Value())
		return m, submitAddCmd(m.ctx, m.controller)
	}

	var cmd tea.Cmd
	m.addInputs[m.addFocusIdx], cmd = m.addInputs[m.addFocusIdx].Update(msg)
	return m, cmd
}

// handleAdviceKey drives the advice overlay.
func (m Model) handleAdviceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.showAdvice = false
		return m, nil

	case key.Matches(msg, m.keys.Advice):
		if m.adviceBusy {
			return m, nil
		}
		m.adviceBusy = true
		return m, adviceCmd(m.ctx, m.controller)
	}
	return m, nil
}

// selectedProduct resolves the product under the cursor.
func (m Model) selectedProduct() (api.Product, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Products) {
		return api.Product{}, false
	}
	return m.snapshot.Products[m.selectedRow], true
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.currentView == ViewLogin {
		return m.renderLogin()
	}
	return m.renderInventory()
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderLogin renders the centered sign-in form.
func (m Model) renderLogin() string {
	s := m.theme.Styles()

	var b strings.Builder
	b.WriteString(s.Logo.Render("ALMACEN"))
	b.WriteString("\n")
	b.WriteString(s.MutedText.Render("Sign in to your inventory"))
	b.WriteString("\n\n")
	b.WriteString(s.FaintText.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.loginInputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(s.FaintText.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.loginInputs[1].View())
	b.WriteString("\n\n")

	switch {
	case m.loggingIn:
		b.WriteString(s.InfoText.Render("Signing in..."))
	case m.loginErr != "":
		b.WriteString(s.DangerText.Render(m.loginErr))
	default:
		b.WriteString(s.FaintText.Render("tab to switch fields, enter to sign in"))
	}

	box := s.Modal.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderInventory renders the main view: header, command bar, content,
// footer.
func (m Model) renderInventory() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n\n")

	switch {
	case m.snapshot.Adding:
		b.WriteString(m.renderAddForm())
	case m.showAdvice:
		b.WriteString(m.renderAdvice())
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the logo line with the signed-in identity.
func (m Model) renderHeader() string {
	s := m.theme.Styles()

	who := ""
	if m.session != nil {
		if id, ok := m.session.Identity(); ok {
			who = id.Label
		}
	}

	left := s.Logo.Render("ALMACEN")
	right := s.MutedText.Render(who + "  [" + m.theme.Name + "]")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return s.Header.Render(left + strings.Repeat(" ", gap) + right)
}

// renderCommandBar renders the context-sensitive key hints.
func (m Model) renderCommandBar() string {
	s := m.theme.Styles()

	var hint string
	switch {
	case m.snapshot.Adding:
		hint = "tab switch field · enter save · esc cancel"
	case m.editingRow != "":
		hint = "enter save · esc discard"
	case m.snapshot.Confirming != "":
		hint = "y delete · n cancel"
	case m.showAdvice:
		hint = "i refresh · esc close"
	default:
		hint = "j/k move · e edit · d delete · a add · i advice · r reload · L log out · h help · q quit"
	}
	return s.Footer.Render(hint)
}

// renderList renders the product table.
func (m Model) renderList() string {
	s := m.theme.Styles()

	if !m.snapshot.Loaded {
		return s.MutedText.Render("  Loading products...")
	}
	if len(m.snapshot.Products) == 0 {
		if m.snapshot.ListError != "" {
			return s.DangerText.Render("  " + m.snapshot.ListError)
		}
		return s.MutedText.Render("  No products yet. Press a to add one.")
	}

	var b strings.Builder
	b.WriteString(s.FaintText.Render(fmt.Sprintf("  %-8s %-32s %10s", "ID", "NAME", "QUANTITY")))
	b.WriteString("\n")

	for i, p := range m.snapshot.Products {
		quantity := m.snapshot.DisplayedQuantity(p.DisplayID)
		if m.editingRow == p.DisplayID {
			quantity = m.editInput.View()
		}

		row := fmt.Sprintf("  %-8s %-32s %10s", p.DisplayID, truncate(p.Name, 32), quantity)

		switch {
		case m.snapshot.Confirming == p.DisplayID:
			row = s.WarningText.Render(row)
		case i == m.selectedRow:
			row = s.Selected.Render(row)
		case m.snapshot.IsZero(p.DisplayID):
			row = s.DangerText.Render(row)
		default:
			row = s.Text.Render(row)
		}

		b.WriteString(row)
		if m.snapshot.IsZero(p.DisplayID) && m.editingRow != p.DisplayID {
			b.WriteString(s.DangerText.Render("  out of stock"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderAddForm renders the add-product dialog in place of the list.
func (m Model) renderAddForm() string {
	s := m.theme.Styles()

	var b strings.Builder
	b.WriteString(s.AccentText.Render("Add product"))
	b.WriteString("\n\n")
	b.WriteString(s.FaintText.Render("Name"))
	b.WriteString("\n")
	b.WriteString(m.addInputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(s.FaintText.Render("Quantity"))
	b.WriteString("\n")
	b.WriteString(m.addInputs[1].View())
	if m.snapshot.AddError != "" {
		b.WriteString("\n\n")
		b.WriteString(s.DangerText.Render(m.snapshot.AddError))
	}
	return s.Modal.Render(b.String())
}

// renderAdvice renders the advice panel.
func (m Model) renderAdvice() string {
	s := m.theme.Styles()

	var b strings.Builder
	b.WriteString(s.AccentText.Render("Inventory advice"))
	b.WriteString("\n\n")

	switch {
	case m.adviceBusy:
		b.WriteString(s.MutedText.Render("Analyzing inventory..."))
	case m.snapshot.AdviceError != "":
		b.WriteString(s.DangerText.Render(m.snapshot.AdviceError))
	case m.snapshot.Advice != "":
		width := m.width - 8
		if width < 20 {
			width = 20
		}
		b.WriteString(s.Text.Width(width).Render(m.snapshot.Advice))
	default:
		b.WriteString(s.MutedText.Render("Press i to request advice."))
	}
	return s.Modal.Render(b.String())
}

// renderFooter renders transient messages and the delete prompt.
func (m Model) renderFooter() string {
	s := m.theme.Styles()

	if id := m.snapshot.Confirming; id != "" {
		name := id
		if p, ok := m.snapshot.Product(id); ok {
			name = p.Name
		}
		return s.WarningText.Render(fmt.Sprintf("  Delete %q? (y/n)", name))
	}
	if m.snapshot.UpdateError != "" {
		return s.DangerText.Render("  " + m.snapshot.UpdateError)
	}
	if m.snapshot.ListError != "" && len(m.snapshot.Products) > 0 {
		return s.DangerText.Render("  " + m.snapshot.ListError)
	}
	if m.snapshot.Notice != "" {
		return s.SuccessText.Render("  " + m.snapshot.Notice)
	}
	return ""
}

// renderHelp renders the full-screen help overlay.
func (m Model) renderHelp() string {
	s := m.theme.Styles()

	var b strings.Builder
	b.WriteString(s.AccentText.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", s.InfoText.Render(h.Key), s.Text.Render(h.Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(s.FaintText.Render("Press any key to close."))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s.Modal.Render(b.String()))
}

// truncate shortens a string to at most n characters, never splitting a
// rune.
func truncate(v string, n int) string {
	runes := []rune(v)
	if len(runes) <= n {
		return v
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

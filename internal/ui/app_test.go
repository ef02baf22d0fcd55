package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rvega/almacen/internal/api"
	"github.com/rvega/almacen/internal/inventory"
)

type stubService struct {
	products []api.Product
}

func (s *stubService) FetchAdvice(ctx context.Context) (string, error) { return "", nil }

func (s *stubService) ListProducts(ctx context.Context) ([]api.Product, error) {
	return s.products, nil
}

func (s *stubService) CreateProduct(ctx context.Context, name string, quantity int) (api.Product, error) {
	return api.Product{}, nil
}

func (s *stubService) UpdateProduct(ctx context.Context, internalID int64, patch api.Patch) (api.Product, error) {
	return api.Product{}, nil
}

func (s *stubService) DeleteProduct(ctx context.Context, internalID int64) error { return nil }

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func inventoryModel(t *testing.T) (Model, *inventory.Controller) {
	t.Helper()
	ctrl := inventory.New(&stubService{products: []api.Product{
		{InternalID: 1, DisplayID: "P001", Name: "Widget", Quantity: 3},
		{InternalID: 2, DisplayID: "P002", Name: "Bolt", Quantity: 7},
	}})
	ctrl.Load(context.Background())

	m := New(Options{Controller: ctrl})
	m.currentView = ViewInventory
	m.ready = true
	updated, _ := m.Update(refreshMsg{})
	return updated.(Model), ctrl
}

func TestModel_NavigationMovesSelection(t *testing.T) {
	m, _ := inventoryModel(t)

	updated, _ := m.Update(keyRune('j'))
	m = updated.(Model)
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d after j, want 1", m.selectedRow)
	}

	// Already at the bottom; stays put.
	updated, _ = m.Update(keyRune('j'))
	m = updated.(Model)
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want clamped at 1", m.selectedRow)
	}

	updated, _ = m.Update(keyRune('k'))
	m = updated.(Model)
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d after k, want 0", m.selectedRow)
	}
}

func TestModel_DeletePromptAndCancel(t *testing.T) {
	m, ctrl := inventoryModel(t)

	updated, _ := m.Update(keyRune('d'))
	m = updated.(Model)
	if got := m.snapshot.Confirming; got != "P001" {
		t.Fatalf("Confirming = %q after d, want P001", got)
	}

	// While the prompt is up, navigation keys are inert.
	updated, _ = m.Update(keyRune('j'))
	m = updated.(Model)
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want unchanged during confirmation", m.selectedRow)
	}

	updated, _ = m.Update(keyRune('n'))
	m = updated.(Model)
	if got := m.snapshot.Confirming; got != "" {
		t.Fatalf("Confirming = %q after n, want cleared", got)
	}
	if got := ctrl.Snapshot().Confirming; got != "" {
		t.Fatalf("controller Confirming = %q, want cleared", got)
	}
}

func TestModel_EditSeedsBufferFromDisplayedValue(t *testing.T) {
	m, ctrl := inventoryModel(t)

	updated, _ := m.Update(keyRune('e'))
	m = updated.(Model)

	if m.editingRow != "P001" {
		t.Fatalf("editingRow = %q, want P001", m.editingRow)
	}
	if got := m.editInput.Value(); got != "3" {
		t.Fatalf("editor seeded with %q, want 3", got)
	}
	if got := ctrl.Snapshot().Edits["P001"]; got != "3" {
		t.Fatalf("controller buffer = %q, want mirrored", got)
	}

	// Escape abandons the edit everywhere.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.editingRow != "" {
		t.Fatalf("editingRow = %q after esc, want cleared", m.editingRow)
	}
	if _, ok := ctrl.Snapshot().Edits["P001"]; ok {
		t.Fatal("controller buffer survived esc")
	}
}

func TestModel_RefreshClampsSelection(t *testing.T) {
	m, ctrl := inventoryModel(t)
	m.selectedRow = 5

	ctrl.Load(context.Background())
	updated, _ := m.Update(refreshMsg{})
	m = updated.(Model)

	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want clamped to last row", m.selectedRow)
	}
}

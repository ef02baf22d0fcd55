package inventory

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/rvega/almacen/internal/api"
)

// Workflow messages surfaced to the display layer. The advice workflow keeps
// quota exhaustion distinct from generic connectivity failure.
const (
	AdviceQuotaMessage   = "AI quota exhausted. Try again in a minute."
	AdviceFailureMessage = "Could not reach the analysis service."
	NoAdviceMessage      = "No advice is available right now."
	AddedNotice          = "Product added."
)

// Draft is the transient add-dialog form state. Quantity stays a raw string
// until submit so the user can type freely.
type Draft struct {
	Name     string
	Quantity string
}

// Controller owns the in-memory product list and all per-item interaction
// state: optimistic edit buffers, the single delete confirmation slot, and
// the add-item workflow. Methods that hit the network run without the lock
// held, so the UI stays responsive while a request is outstanding.
type Controller struct {
	mu  sync.Mutex
	api api.Service

	products []api.Product
	index    map[string]int // displayID -> position in products

	edits      map[string]string // displayID -> uncommitted raw quantity
	confirming string            // displayID awaiting delete confirmation, "" when idle
	adding     bool
	draft      Draft

	advice    string
	notice    string
	loaded    bool
	listErr   string
	updateErr string
	addErr    string
	adviceErr string
}

// New returns a Controller over the given API service.
func New(service api.Service) *Controller {
	return &Controller{
		api:   service,
		index: make(map[string]int),
		edits: make(map[string]string),
	}
}

// Snapshot is a copy of the display state at one point in time.
type Snapshot struct {
	Products   []api.Product
	Edits      map[string]string
	Confirming string
	Adding     bool
	Draft      Draft

	Advice string
	Notice string
	Loaded bool

	ListError   string
	UpdateError string
	AddError    string
	AdviceError string
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Confirming:  c.confirming,
		Adding:      c.adding,
		Draft:       c.draft,
		Advice:      c.advice,
		Notice:      c.notice,
		Loaded:      c.loaded,
		ListError:   c.listErr,
		UpdateError: c.updateErr,
		AddError:    c.addErr,
		AdviceError: c.adviceErr,
	}
	if len(c.products) > 0 {
		snap.Products = make([]api.Product, len(c.products))
		copy(snap.Products, c.products)
	}
	snap.Edits = make(map[string]string, len(c.edits))
	for k, v := range c.edits {
		snap.Edits[k] = v
	}
	return snap
}

// Load fetches the full product list. On success the list is replaced; on
// failure the list error is set and an empty list is presented, so the error
// and the list always describe the same attempt.
func (c *Controller) Load(ctx context.Context) {
	items, err := c.api.ListProducts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	if err != nil {
		c.products = nil
		c.listErr = failureMessage(err, "could not load products")
		c.rebuildIndexLocked()
		c.pruneLocked()
		return
	}
	c.products = items
	c.listErr = ""
	c.rebuildIndexLocked()
	c.pruneLocked()
}

// SetEdit records an uncommitted quantity value for the given product. The
// buffer is keyed by the display identifier, never the authoritative one.
func (c *Controller) SetEdit(displayID, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[displayID]; !ok {
		return
	}
	c.edits[displayID] = raw
}

// DropEdit abandons a pending edit buffer, reverting the displayed value to
// the last server-confirmed quantity.
func (c *Controller) DropEdit(displayID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.edits, displayID)
}

// CommitEdit validates the buffered value and, if it parses as a
// non-negative integer, sends the update. Malformed input is refused
// silently: no request, no error, buffer kept. The request is issued against
// the product's authoritative identifier, resolved from the product object;
// the display key never reaches the transport layer.
func (c *Controller) CommitEdit(ctx context.Context, displayID string) {
	c.mu.Lock()
	raw, editing := c.edits[displayID]
	if !editing {
		c.mu.Unlock()
		return
	}
	quantity, ok := parseQuantity(raw)
	if !ok {
		c.mu.Unlock()
		return
	}
	pos, found := c.index[displayID]
	if !found {
		// Product vanished from a refreshed list; orphaned buffer.
		delete(c.edits, displayID)
		c.mu.Unlock()
		return
	}
	internalID := c.products[pos].InternalID
	delete(c.edits, displayID)
	c.updateErr = ""
	c.mu.Unlock()

	updated, err := c.api.UpdateProduct(ctx, internalID, api.Patch{Quantity: &quantity})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.updateErr = failureMessage(err, "could not update the product")
		return
	}
	if pos, ok := c.index[displayID]; ok {
		c.products[pos].Quantity = updated.Quantity
	}
}

// RequestDelete moves the given product into the confirmation slot. Any
// previously pending confirmation is replaced; there is no stacking.
func (c *Controller) RequestDelete(displayID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[displayID]; !ok {
		return
	}
	c.confirming = displayID
}

// CancelDelete returns the pending item to normal display. No request is
// made.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirming = ""
}

// ConfirmDelete deletes the item in the confirmation slot. The item leaves
// the list only after the server confirms; on failure the slot is kept so
// the user can retry or cancel.
func (c *Controller) ConfirmDelete(ctx context.Context) {
	c.mu.Lock()
	displayID := c.confirming
	if displayID == "" {
		c.mu.Unlock()
		return
	}
	pos, found := c.index[displayID]
	if !found {
		c.confirming = ""
		c.mu.Unlock()
		return
	}
	internalID := c.products[pos].InternalID
	c.updateErr = ""
	c.mu.Unlock()

	err := c.api.DeleteProduct(ctx, internalID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.updateErr = failureMessage(err, "could not delete the product")
		return
	}
	if pos, ok := c.index[displayID]; ok {
		c.products = append(c.products[:pos], c.products[pos+1:]...)
		c.rebuildIndexLocked()
	}
	delete(c.edits, displayID)
	c.confirming = ""
}

// OpenAdd opens the add dialog with a fresh draft.
func (c *Controller) OpenAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adding = true
	c.draft = Draft{}
	c.addErr = ""
}

// CloseAdd dismisses the add dialog.
func (c *Controller) CloseAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adding = false
	c.addErr = ""
}

// SetDraftName updates the draft name field.
func (c *Controller) SetDraftName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Name = name
}

// SetDraftQuantity updates the draft quantity field.
func (c *Controller) SetDraftQuantity(quantity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Quantity = quantity
}

// SubmitAdd validates the draft and creates the product. Validation failures
// stay local: a message in the add-error slot and no request. On success the
// dialog closes, a transient notice is set, and the full list is re-fetched
// because the server assigns both identifiers and their canonical form is
// not predictable client-side.
func (c *Controller) SubmitAdd(ctx context.Context) {
	c.mu.Lock()
	name := strings.TrimSpace(c.draft.Name)
	if name == "" {
		c.addErr = "the product name must not be empty"
		c.mu.Unlock()
		return
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(c.draft.Quantity), 64)
	// The upper bound uses >= because math.MaxInt64 rounds up to 2^63 as a
	// float, which is exactly the first value the int conversion cannot hold.
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 || value >= math.MaxInt64 {
		c.addErr = "the quantity must be a number greater than or equal to 0"
		c.mu.Unlock()
		return
	}
	quantity := int(value) // fractional input truncated toward zero
	c.addErr = ""
	c.mu.Unlock()

	if _, err := c.api.CreateProduct(ctx, name, quantity); err != nil {
		c.mu.Lock()
		c.addErr = failureMessage(err, "could not add the product")
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.adding = false
	c.draft = Draft{}
	c.notice = AddedNotice
	c.mu.Unlock()

	items, err := c.api.ListProducts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// Keep the existing display data; the refreshed list simply never
		// arrived.
		c.listErr = failureMessage(err, "could not refresh products")
		return
	}
	c.products = items
	c.listErr = ""
	c.rebuildIndexLocked()
	c.pruneLocked()
}

// RequestAdvice fetches the inventory analysis. Quota exhaustion surfaces a
// distinct message from generic connectivity failure.
func (c *Controller) RequestAdvice(ctx context.Context) {
	c.mu.Lock()
	c.adviceErr = ""
	c.mu.Unlock()

	text, err := c.api.FetchAdvice(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if errors.Is(err, api.ErrRateLimited) {
			c.adviceErr = AdviceQuotaMessage
		} else {
			c.adviceErr = AdviceFailureMessage
		}
		return
	}
	if text == "" {
		text = NoAdviceMessage
	}
	c.advice = text
}

// ClearNotice dismisses the transient success notice.
func (c *Controller) ClearNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = ""
}

// rebuildIndexLocked refreshes the displayID lookup map. Callers hold c.mu.
func (c *Controller) rebuildIndexLocked() {
	c.index = make(map[string]int, len(c.products))
	for i, p := range c.products {
		c.index[p.DisplayID] = i
	}
}

// pruneLocked drops interaction state for products no longer in the list.
// Orphaned buffers disappear silently. Callers hold c.mu.
func (c *Controller) pruneLocked() {
	for displayID := range c.edits {
		if _, ok := c.index[displayID]; !ok {
			delete(c.edits, displayID)
		}
	}
	if c.confirming != "" {
		if _, ok := c.index[c.confirming]; !ok {
			c.confirming = ""
		}
	}
}

// parseQuantity reports whether raw is a well-formed non-negative integer.
func parseQuantity(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// failureMessage prefers the server's detail message, falling back to a
// workflow-specific default.
func failureMessage(err error, fallback string) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Detail != "" {
		return statusErr.Detail
	}
	return fallback
}

// Product resolves a product by its display identifier.
func (s Snapshot) Product(displayID string) (api.Product, bool) {
	for _, p := range s.Products {
		if p.DisplayID == displayID {
			return p, true
		}
	}
	return api.Product{}, false
}

// DisplayedQuantity returns the value the UI should show for a product: the
// pending edit buffer when one exists, otherwise the server-confirmed
// quantity.
func (s Snapshot) DisplayedQuantity(displayID string) string {
	if raw, ok := s.Edits[displayID]; ok {
		return raw
	}
	if p, ok := s.Product(displayID); ok {
		return strconv.Itoa(p.Quantity)
	}
	return ""
}

// IsZero reports whether a product's displayed value is exactly zero, from
// the moment it reaches zero until it is edited away from zero.
func (s Snapshot) IsZero(displayID string) bool {
	n, ok := parseQuantity(s.DisplayedQuantity(displayID))
	return ok && n == 0
}

package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/internal/domain/repository"
	"github.com/buzzcafe/billing-api/pkg/apperror"
	"github.com/google/uuid"
)

// CartLine is one menu item in a cart with its quantity. Name and price
// are snapshotted from the menu item when it is first added, so the line
// survives later menu edits unchanged.
type CartLine struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Price      int64     `json:"-"` // Unit price in cents
	Qty        int       `json:"qty"`
}

// LineTotal returns the exact line total in cents
func (l CartLine) LineTotal() int64 {
	return l.Price * int64(l.Qty)
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (l CartLine) MarshalJSON() ([]byte, error) {
	type Alias CartLine
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
		Total float64 `json:"total"`
	}{
		Alias: Alias(l),
		Price: float64(l.Price) / 100,
		Total: float64(l.LineTotal()) / 100,
	})
}

// Cart is a draft invoice: the lines a user has picked but not yet saved.
// Lines keep insertion order. A quantity never drops below 1; decrementing
// a line at quantity 1 removes it.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Total returns the exact cart total in cents
func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.LineTotal()
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// MarshalJSON custom marshaler that includes the running total
func (c Cart) MarshalJSON() ([]byte, error) {
	lines := c.Lines
	if lines == nil {
		lines = []CartLine{}
	}
	return json.Marshal(&struct {
		Lines []CartLine `json:"lines"`
		Total float64    `json:"total"`
	}{
		Lines: lines,
		Total: float64(c.Total()) / 100,
	})
}

// clone returns a deep copy so callers never see in-place mutation
func (c *Cart) clone() *Cart {
	out := &Cart{Lines: make([]CartLine, len(c.Lines))}
	copy(out.Lines, c.Lines)
	return out
}

// CartStore holds the in-memory carts, one per user. Carts are transient:
// they live only for the lifetime of the process and are dropped on save.
type CartStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

// NewCartStore creates an empty cart store
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[uuid.UUID]*Cart)}
}

func (s *CartStore) get(userID uuid.UUID) *Cart {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &Cart{}
		s.carts[userID] = cart
	}
	return cart
}

// Snapshot returns a copy of the user's current cart
func (s *CartStore) Snapshot(userID uuid.UUID) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(userID).clone()
}

// AddItem adds one unit of the menu item. An existing line for the same
// menu item gets its quantity incremented; otherwise a new line with
// quantity 1 is appended.
func (s *CartStore) AddItem(userID uuid.UUID, item *entity.MenuItem) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.get(userID)
	for i := range cart.Lines {
		if cart.Lines[i].MenuItemID == item.ID {
			cart.Lines[i].Qty++
			return cart.clone()
		}
	}
	cart.Lines = append(cart.Lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Qty:        1,
	})
	return cart.clone()
}

// IncreaseQty adds one unit to an existing line
func (s *CartStore) IncreaseQty(userID, menuItemID uuid.UUID) (*Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.get(userID)
	for i := range cart.Lines {
		if cart.Lines[i].MenuItemID == menuItemID {
			cart.Lines[i].Qty++
			return cart.clone(), true
		}
	}
	return cart.clone(), false
}

// DecreaseQty removes one unit from an existing line; the line is removed
// entirely when its quantity reaches zero.
func (s *CartStore) DecreaseQty(userID, menuItemID uuid.UUID) (*Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.get(userID)
	for i := range cart.Lines {
		if cart.Lines[i].MenuItemID == menuItemID {
			cart.Lines[i].Qty--
			if cart.Lines[i].Qty <= 0 {
				cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			}
			return cart.clone(), true
		}
	}
	return cart.clone(), false
}

// RemoveItem deletes a line regardless of its quantity
func (s *CartStore) RemoveItem(userID, menuItemID uuid.UUID) (*Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.get(userID)
	for i := range cart.Lines {
		if cart.Lines[i].MenuItemID == menuItemID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			return cart.clone(), true
		}
	}
	return cart.clone(), false
}

// Clear empties the user's cart
func (s *CartStore) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// CartService exposes cart operations backed by the menu catalog
type CartService struct {
	store    *CartStore
	menuRepo repository.MenuItemRepository
}

// NewCartService creates a new cart service
func NewCartService(store *CartStore, menuRepo repository.MenuItemRepository) *CartService {
	return &CartService{store: store, menuRepo: menuRepo}
}

// GetCart returns the user's current cart
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) *Cart {
	return s.store.Snapshot(userID)
}

// AddItem looks up the menu item and adds one unit of it to the cart
func (s *CartService) AddItem(ctx context.Context, userID, menuItemID uuid.UUID) (*Cart, error) {
	item, err := s.menuRepo.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	return s.store.AddItem(userID, item), nil
}

// IncreaseQty increments the quantity of a cart line
func (s *CartService) IncreaseQty(ctx context.Context, userID, menuItemID uuid.UUID) (*Cart, error) {
	cart, ok := s.store.IncreaseQty(userID, menuItemID)
	if !ok {
		return nil, apperror.NewNotFoundError("Cart item")
	}
	return cart, nil
}

// DecreaseQty decrements the quantity of a cart line, removing it at zero
func (s *CartService) DecreaseQty(ctx context.Context, userID, menuItemID uuid.UUID) (*Cart, error) {
	cart, ok := s.store.DecreaseQty(userID, menuItemID)
	if !ok {
		return nil, apperror.NewNotFoundError("Cart item")
	}
	return cart, nil
}

// RemoveItem removes a cart line entirely
func (s *CartService) RemoveItem(ctx context.Context, userID, menuItemID uuid.UUID) (*Cart, error) {
	cart, ok := s.store.RemoveItem(userID, menuItemID)
	if !ok {
		return nil, apperror.NewNotFoundError("Cart item")
	}
	return cart, nil
}

// ClearCart empties the user's cart
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) {
	s.store.Clear(userID)
}

// Package cart holds the shopping cart state machine.
//
// Reduce is the transition function: it takes a state and an action and
// returns the next state without touching its input. Store and Sessions
// put that function behind a per-session lock for the HTTP service.
package cart

import "github.com/YusovID/storefront/internal/models"

// Action is one of AddItem, RemoveItem, UpdateQuantity or ClearCart.
type Action interface {
	// Kind is the action label used in logs and metrics.
	Kind() string

	apply(items []models.CartItem) []models.CartItem
}

// AddItem merges a product into the cart. The price, name and image are
// captured as given and never re-read from the catalog.
type AddItem struct {
	ID    int64   `json:"id" validate:"required"`
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gt=0"`
	Image string  `json:"image"`
}

// RemoveItem drops a line regardless of its quantity.
type RemoveItem struct {
	ID int64
}

// UpdateQuantity sets the absolute quantity of a line. A quantity of zero
// or less removes the line.
type UpdateQuantity struct {
	ID       int64
	Quantity int
}

// ClearCart empties the cart.
type ClearCart struct{}

// AddProduct builds the AddItem payload for a catalog entry.
func AddProduct(p models.Product) AddItem {
	return AddItem{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
}

func (AddItem) Kind() string        { return "add_item" }
func (RemoveItem) Kind() string     { return "remove_item" }
func (UpdateQuantity) Kind() string { return "update_quantity" }
func (ClearCart) Kind() string      { return "clear_cart" }

// Reduce returns the state that results from applying action to state.
// Unknown IDs in RemoveItem and UpdateQuantity leave the items unchanged.
func Reduce(state models.CartState, action Action) models.CartState {
	next := state.Clone()
	if action == nil {
		return next
	}

	next.Items = action.apply(next.Items)
	next.Total = Total(next.Items)

	return next
}

// Total is the sum of price*quantity over items.
func Total(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	return total
}

func (a AddItem) apply(items []models.CartItem) []models.CartItem {
	if i := indexOf(items, a.ID); i >= 0 {
		items[i].Quantity++
		return items
	}

	return append(items, models.CartItem{
		ID:       a.ID,
		Name:     a.Name,
		Price:    a.Price,
		Image:    a.Image,
		Quantity: 1,
	})
}

func (a RemoveItem) apply(items []models.CartItem) []models.CartItem {
	i := indexOf(items, a.ID)
	if i < 0 {
		return items
	}

	return append(items[:i], items[i+1:]...)
}

func (a UpdateQuantity) apply(items []models.CartItem) []models.CartItem {
	if a.Quantity <= 0 {
		return RemoveItem{ID: a.ID}.apply(items)
	}

	if i := indexOf(items, a.ID); i >= 0 {
		items[i].Quantity = a.Quantity
	}

	return items
}

func (ClearCart) apply([]models.CartItem) []models.CartItem {
	return nil
}

func indexOf(items []models.CartItem, id int64) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}

	return -1
}

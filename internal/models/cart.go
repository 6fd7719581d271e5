package models

// CartItem is one cart line. ID is the originating product ID and is the
// merge key: a cart never holds two lines with the same ID.
type CartItem struct {
	ID       int64   `json:"id" db:"product_id"`
	Name     string  `json:"name" db:"name"`
	Price    float64 `json:"price" db:"price"`
	Image    string  `json:"image" db:"image"`
	Quantity int     `json:"quantity" db:"quantity"`
}

// CartState is the cart contents plus the denormalized running total,
// which always equals the sum of price*quantity over Items.
type CartState struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// ItemCount returns the sum of quantities, used for the cart badge.
func (s CartState) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}

	return count
}

// Clone returns a copy of s that shares no memory with it.
func (s CartState) Clone() CartState {
	if s.Items == nil {
		return CartState{Total: s.Total}
	}

	items := make([]CartItem, len(s.Items))
	copy(items, s.Items)

	return CartState{Items: items, Total: s.Total}
}

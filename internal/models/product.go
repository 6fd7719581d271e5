package models

// Product is a catalog entry. It is read-only for the cart and order code.
type Product struct {
	ID            int64    `json:"id" db:"id"`
	Name          string   `json:"name" db:"name"`
	Price         float64  `json:"price" db:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" db:"original_price"`
	Image         string   `json:"image" db:"image"`
	Rating        float64  `json:"rating" db:"rating"`
	Reviews       int      `json:"reviews" db:"reviews"`
	Category      string   `json:"category" db:"category"`
	Brand         string   `json:"brand,omitempty" db:"brand"`
	Badge         string   `json:"badge,omitempty" db:"badge"`
}

// ListPrice returns the original price, or zero when the product has none.
func (p Product) ListPrice() float64 {
	if p.OriginalPrice == nil {
		return 0
	}

	return *p.OriginalPrice
}

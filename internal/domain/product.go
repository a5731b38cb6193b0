package domain

import "time"

// Product represents a product in the storefront
type Product struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Price      int64     `json:"price" db:"price"`
	Stock      int       `json:"stock" db:"stock"`
	Image      string    `json:"image,omitempty" db:"image"`
	CategoryID int64     `json:"category_id" db:"category_id"`
	Category   *Category `json:"category,omitempty"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// InStock reports whether at least one unit can be bought
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Category represents a product category
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

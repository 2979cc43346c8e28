package catalog

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("catalog: invalid category")
	ErrInvalidProduct  = errors.New("catalog: invalid product")
)

// Category groups products for storefront browsing.
type Category struct {
	ID   string
	Name string
}

// Product is one sellable item.
// ImagePath is the object path inside the product image bucket; the
// adapter layer turns it into a public URL for responses.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryID  string
	ImagePath   string
	CreatedAt   time.Time
}

// NewProduct validates the fields a seller must provide.
func NewProduct(id, name, description string, price float64, stock int, categoryID string, now time.Time) (Product, error) {
	p := Product{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Stock:       stock,
		CategoryID:  strings.TrimSpace(categoryID),
		CreatedAt:   now,
	}
	if p.ID == "" || p.Name == "" || p.Price < 0 || p.Stock < 0 {
		return Product{}, ErrInvalidProduct
	}
	return p, nil
}

// HasStock reports whether qty units can be taken from stock.
func (p Product) HasStock(qty int) bool {
	return qty >= 1 && p.Stock >= qty
}

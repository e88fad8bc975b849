package catalog

import (
	"errors"
	"math"
	"strings"
	"time"
)

type Category string

const (
	CategorySarees Category = "sarees"
	CategorySuits  Category = "suits"
	CategoryKurtis Category = "kurtis"
)

func Categories() []Category {
	return []Category{CategorySarees, CategorySuits, CategoryKurtis}
}

func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategorySarees:
		return CategorySarees, true
	case CategorySuits:
		return CategorySuits, true
	case CategoryKurtis:
		return CategoryKurtis, true
	}
	return "", false
}

// Product is the catalog record. JSON field names match the original wire
// format so exported files from the old storefront import cleanly.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice,omitempty"`
	Images        []string  `json:"images"`
	Category      Category  `json:"category"`
	Subcategory   string    `json:"subcategory,omitempty"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	InStock       bool      `json:"inStock"`
	Featured      bool      `json:"featured"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DiscountPercent is the displayed markdown against OriginalPrice, zero when
// no original price is set or it does not exceed the current price.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice <= p.Price || p.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
}

var (
	ErrNameRequired        = errors.New("name is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrPriceInvalid        = errors.New("price must be greater than zero")
	ErrImagesRequired      = errors.New("at least one image is required")
	ErrBadCategory         = errors.New("unknown category")
)

// Input carries the admin-supplied fields for a new product.
type Input struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice,omitempty"`
	Images        []string `json:"images"`
	Category      Category `json:"category"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	InStock       bool     `json:"inStock"`
	Featured      bool     `json:"featured"`
	Tags          []string `json:"tags"`
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrDescriptionRequired
	}
	if in.Price <= 0 {
		return ErrPriceInvalid
	}
	if len(in.Images) == 0 {
		return ErrImagesRequired
	}
	if _, ok := ParseCategory(string(in.Category)); !ok {
		return ErrBadCategory
	}
	return nil
}

// Update holds a partial set of mutable fields; nil pointers and nil slices
// leave the existing value in place.
type Update struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Category      *Category `json:"category,omitempty"`
	Subcategory   *string   `json:"subcategory,omitempty"`
	Sizes         []string  `json:"sizes,omitempty"`
	Colors        []string  `json:"colors,omitempty"`
	InStock       *bool     `json:"inStock,omitempty"`
	Featured      *bool     `json:"featured,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
}

func (u Update) applyTo(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.OriginalPrice != nil {
		p.OriginalPrice = *u.OriginalPrice
	}
	if u.Images != nil {
		p.Images = u.Images
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Subcategory != nil {
		p.Subcategory = *u.Subcategory
	}
	if u.Sizes != nil {
		p.Sizes = u.Sizes
	}
	if u.Colors != nil {
		p.Colors = u.Colors
	}
	if u.InStock != nil {
		p.InStock = *u.InStock
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
	if u.Tags != nil {
		p.Tags = u.Tags
	}
}

package models

import (
	dErrors "beautylist/pkg/domain-errors"
)

// ProductID identifies a product within the store. Ids are opaque: freshly
// created products get a UUID, imported ones keep whatever the document had.
type ProductID string

// Product is the sole persisted entity. Optional fields are nil when absent so
// they are omitted from exported documents rather than written as null or "".
//
// Invariants:
//   - ID is non-empty and unique within the store
//   - Category belongs to one of the tabs
//   - Brand and Name are non-empty
//   - Price is non-negative
//   - Rating, when present, is within [0,5]
//   - ReviewCount, when present, is non-negative
type Product struct {
	ID          ProductID `json:"id"`
	Category    Category  `json:"category"`
	Brand       string    `json:"brand"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Shade       *string   `json:"shade,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	Retailer    Retailer  `json:"retailer"`
	ProductURL  *string   `json:"productUrl,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	ReviewCount *int      `json:"reviewCount,omitempty"`
}

// Clone returns a deep copy so stored records never alias caller memory.
func (p Product) Clone() Product {
	c := p
	c.Shade = clonePtr(p.Shade)
	c.Notes = clonePtr(p.Notes)
	c.ProductURL = clonePtr(p.ProductURL)
	c.ImageURL = clonePtr(p.ImageURL)
	c.Rating = clonePtr(p.Rating)
	c.ReviewCount = clonePtr(p.ReviewCount)
	return c
}

// Validate checks the entity invariants. Uniqueness of ID is a store concern.
func (p Product) Validate() error {
	if p.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "product id is required")
	}
	if !p.Category.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown category %q", p.Category)
	}
	if p.Brand == "" {
		return dErrors.New(dErrors.CodeValidation, "brand is required")
	}
	if p.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if p.Price < 0 {
		return dErrors.New(dErrors.CodeValidation, "price cannot be negative")
	}
	if !p.Retailer.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown retailer %q", p.Retailer)
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return dErrors.New(dErrors.CodeValidation, "rating must be between 0 and 5")
	}
	if p.ReviewCount != nil && *p.ReviewCount < 0 {
		return dErrors.New(dErrors.CodeValidation, "review count cannot be negative")
	}
	return nil
}

// Optional returns a pointer to s, or nil when s is empty.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

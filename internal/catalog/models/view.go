package models

import "fmt"

// Query holds the user-selected view parameters.
type Query struct {
	Tab      Tab      `json:"tab"`
	Search   string   `json:"search"`
	Retailer Retailer `json:"retailer"`
}

// DefaultQuery shows every retailer of the given tab with no search.
func DefaultQuery(tab Tab) Query {
	return Query{Tab: tab, Retailer: RetailerAll}
}

// IsFiltered reports whether search or retailer narrows the tab's products.
func (q Query) IsFiltered() bool {
	return q.Search != "" || (q.Retailer != RetailerAll && q.Retailer != "")
}

// CategoryGroup is one category of the active tab and its matching products.
type CategoryGroup struct {
	Category Category  `json:"category"`
	Products []Product `json:"products"`
}

// RetailerSubtotal is the cost and count of filtered products bought from one
// retailer.
type RetailerSubtotal struct {
	Retailer Retailer `json:"retailer"`
	Subtotal Money    `json:"subtotal"`
	Count    int      `json:"count"`
}

// String renders the breakdown line, e.g. "Ulta: $14.99 (1)".
func (r RetailerSubtotal) String() string {
	return fmt.Sprintf("%s: $%s (%d)", r.Retailer, r.Subtotal, r.Count)
}

// ViewModel is the filtered, grouped and aggregated data handed to the
// presentation layer.
type ViewModel struct {
	Query      Query              `json:"query"`
	Groups     []CategoryGroup    `json:"groups"`
	Total      Money              `json:"total"`
	Retailers  []RetailerSubtotal `json:"retailers"`
	MatchCount int                `json:"matchCount"`
	TabCount   int                `json:"tabCount"`
	Filtered   bool               `json:"filtered"`
}

// Group returns the products shown under c, or nil when c is not part of the
// active tab.
func (v ViewModel) Group(c Category) []Product {
	for _, g := range v.Groups {
		if g.Category == c {
			return g.Products
		}
	}
	return nil
}

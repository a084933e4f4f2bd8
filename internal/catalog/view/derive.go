// Package view turns the product store and the current query into the view
// model. Everything here is pure and recomputed on every read.
package view

import (
	"strings"

	"beautylist/internal/catalog/models"
)

// Derive filters, groups and aggregates products for q.
//
// The tab filter is applied first. Search and retailer filters are then
// combined with AND. Groups follow the tab's category order and include
// empty categories. Totals cover exactly the filtered products; retailers
// with no match are left out of the breakdown.
func Derive(products []models.Product, q models.Query) models.ViewModel {
	inTab := FilterTab(products, q.Tab)
	matched := make([]models.Product, 0, len(inTab))
	for _, p := range inTab {
		if MatchesSearch(p, q.Search) && MatchesRetailer(p, q.Retailer) {
			matched = append(matched, p)
		}
	}

	total, breakdown := Summarize(matched)
	return models.ViewModel{
		Query:      q,
		Groups:     GroupByCategory(matched, q.Tab),
		Total:      total,
		Retailers:  breakdown,
		MatchCount: len(matched),
		TabCount:   len(inTab),
		Filtered:   q.IsFiltered(),
	}
}

// FilterTab keeps products whose category belongs to tab, in store order.
func FilterTab(products []models.Product, tab models.Tab) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if tab.Has(p.Category) {
			out = append(out, p)
		}
	}
	return out
}

// MatchesSearch reports whether query is a case-insensitive substring of the
// brand, name or category. The query is used verbatim; whitespace is not
// trimmed.
func MatchesSearch(p models.Product, query string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Brand), needle) ||
		strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(string(p.Category)), needle)
}

// MatchesRetailer reports whether the product passes the retailer filter.
// An empty filter behaves like All.
func MatchesRetailer(p models.Product, filter models.Retailer) bool {
	return filter == models.RetailerAll || filter == "" || p.Retailer == filter
}

// GroupByCategory partitions products by the tab's categories in display
// order. Every category gets a group, possibly empty.
func GroupByCategory(products []models.Product, tab models.Tab) []models.CategoryGroup {
	categories := tab.Categories()
	groups := make([]models.CategoryGroup, len(categories))
	index := make(map[models.Category]int, len(categories))
	for i, c := range categories {
		groups[i] = models.CategoryGroup{Category: c, Products: []models.Product{}}
		index[c] = i
	}
	for _, p := range products {
		if i, ok := index[p.Category]; ok {
			groups[i].Products = append(groups[i].Products, p)
		}
	}
	return groups
}

// Summarize returns the total price and the per-retailer breakdown in
// retailer enumeration order, omitting retailers without products.
func Summarize(products []models.Product) (models.Money, []models.RetailerSubtotal) {
	total := models.Money{}
	byRetailer := make(map[models.Retailer]*models.RetailerSubtotal)
	for _, p := range products {
		price := models.MoneyFromFloat(p.Price)
		total = total.Add(price)

		sub, ok := byRetailer[p.Retailer]
		if !ok {
			sub = &models.RetailerSubtotal{Retailer: p.Retailer}
			byRetailer[p.Retailer] = sub
		}
		sub.Subtotal = sub.Subtotal.Add(price)
		sub.Count++
	}

	breakdown := []models.RetailerSubtotal{}
	for _, r := range models.Retailers() {
		if sub, ok := byRetailer[r]; ok {
			breakdown = append(breakdown, *sub)
		}
	}
	return total, breakdown
}

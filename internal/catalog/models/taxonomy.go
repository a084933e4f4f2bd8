package models

import (
	"slices"

	dErrors "beautylist/pkg/domain-errors"
)

// Tab is a top-level partition of the catalog. Each tab owns a fixed,
// disjoint set of categories.
type Tab string

const (
	TabSkincare Tab = "skincare"
	TabMakeup   Tab = "makeup"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabSkincare, TabMakeup}

// IsValid checks if the tab is one of the supported values.
func (t Tab) IsValid() bool {
	return t == TabSkincare || t == TabMakeup
}

// Categories returns the tab's categories in display order. The returned
// slice is a copy.
func (t Tab) Categories() []Category {
	switch t {
	case TabSkincare:
		return slices.Clone(skincareCategories)
	case TabMakeup:
		return slices.Clone(makeupCategories)
	}
	return nil
}

// Has reports whether c belongs to this tab.
func (t Tab) Has(c Category) bool {
	switch t {
	case TabSkincare:
		return slices.Contains(skincareCategories, c)
	case TabMakeup:
		return slices.Contains(makeupCategories, c)
	}
	return false
}

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	if !t.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown tab %q: must be 'skincare' or 'makeup'", s)
	}
	return t, nil
}

// Category is a closed product type used for grouping and filtering.
type Category string

const (
	CategoryCleanser    Category = "Cleanser"
	CategoryToner       Category = "Toner"
	CategorySerum       Category = "Serum"
	CategoryMoisturizer Category = "Moisturizer"
	CategorySunscreen   Category = "Sunscreen"
	CategoryEyeCream    Category = "Eye Cream"

	CategoryFoundation  Category = "Foundation"
	CategoryConcealer   Category = "Concealer"
	CategoryPowder      Category = "Powder"
	CategoryBlush       Category = "Blush"
	CategoryBronzer     Category = "Bronzer"
	CategoryHighlighter Category = "Highlighter"
	CategoryEyeshadow   Category = "Eyeshadow"
	CategoryEyeliner    Category = "Eyeliner"
	CategoryMascara     Category = "Mascara"
	CategoryBrowProduct Category = "Brow Product"
	CategoryLipstick    Category = "Lipstick"
	CategoryLipGloss    Category = "Lip Gloss"
)

var skincareCategories = []Category{
	CategoryCleanser,
	CategoryToner,
	CategorySerum,
	CategoryMoisturizer,
	CategorySunscreen,
	CategoryEyeCream,
}

var makeupCategories = []Category{
	CategoryFoundation,
	CategoryConcealer,
	CategoryPowder,
	CategoryBlush,
	CategoryBronzer,
	CategoryHighlighter,
	CategoryEyeshadow,
	CategoryEyeliner,
	CategoryMascara,
	CategoryBrowProduct,
	CategoryLipstick,
	CategoryLipGloss,
}

// IsValid checks if the category belongs to either tab.
func (c Category) IsValid() bool {
	_, ok := c.Tab()
	return ok
}

// Tab returns the tab that owns the category.
func (c Category) Tab() (Tab, bool) {
	for _, t := range Tabs {
		if t.Has(c) {
			return t, true
		}
	}
	return "", false
}

// Retailer is a closed source-of-purchase tag.
type Retailer string

const (
	RetailerSephora    Retailer = "Sephora"
	RetailerOliveYoung Retailer = "Olive Young"
	RetailerUlta       Retailer = "Ulta"
	RetailerYesStyle   Retailer = "YesStyle"
	RetailerOther      Retailer = "Other"

	// RetailerAll is the filter sentinel matching every retailer. It is never
	// a valid product retailer.
	RetailerAll Retailer = "All"

	// DefaultRetailer preselects the retailer of an empty draft.
	DefaultRetailer = RetailerSephora
)

var retailers = []Retailer{
	RetailerSephora,
	RetailerOliveYoung,
	RetailerUlta,
	RetailerYesStyle,
	RetailerOther,
}

// Retailers returns the retailer enumeration in display order.
func Retailers() []Retailer {
	return slices.Clone(retailers)
}

// IsValid checks if r is a product retailer. The All sentinel is not.
func (r Retailer) IsValid() bool {
	return slices.Contains(retailers, r)
}

// ParseRetailerFilter accepts any retailer or the All sentinel. An empty
// string means All.
func ParseRetailerFilter(s string) (Retailer, error) {
	if s == "" || Retailer(s) == RetailerAll {
		return RetailerAll, nil
	}
	r := Retailer(s)
	if !r.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown retailer %q", s)
	}
	return r, nil
}

// TabTaxonomy describes one tab and its categories.
type TabTaxonomy struct {
	Tab        Tab        `json:"tab"`
	Categories []Category `json:"categories"`
}

// Taxonomy is the static catalog metadata used to build selection controls.
type Taxonomy struct {
	Tabs      []TabTaxonomy `json:"tabs"`
	Retailers []Retailer    `json:"retailers"`
}

// CurrentTaxonomy returns the static tab/category/retailer enumerations.
func CurrentTaxonomy() Taxonomy {
	tabs := make([]TabTaxonomy, 0, len(Tabs))
	for _, t := range Tabs {
		tabs = append(tabs, TabTaxonomy{Tab: t, Categories: t.Categories()})
	}
	return Taxonomy{Tabs: tabs, Retailers: Retailers()}
}

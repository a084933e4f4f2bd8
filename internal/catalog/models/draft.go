package models

import (
	"math"
	"strconv"

	dErrors "beautylist/pkg/domain-errors"
)

// MsgRequiredFields is the notice shown when a required form field is empty.
const MsgRequiredFields = "Please fill in all required fields"

// Draft is the raw, not-yet-committed form state. Every field holds the text
// the user typed; nothing is parsed until Build.
type Draft struct {
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Shade       string `json:"shade"`
	Notes       string `json:"notes"`
	Retailer    string `json:"retailer"`
	ProductURL  string `json:"productUrl"`
	ImageURL    string `json:"imageUrl"`
	Rating      string `json:"rating"`
	ReviewCount string `json:"reviewCount"`
}

// NewDraft returns an empty draft with the default retailer preselected.
func NewDraft() Draft {
	return Draft{Retailer: string(DefaultRetailer)}
}

// DraftFromProduct loads a product's fields back into form text.
func DraftFromProduct(p Product) Draft {
	d := Draft{
		Category: string(p.Category),
		Brand:    p.Brand,
		Name:     p.Name,
		Price:    formatFloat(p.Price),
		Retailer: string(p.Retailer),
	}
	if p.Shade != nil {
		d.Shade = *p.Shade
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.ProductURL != nil {
		d.ProductURL = *p.ProductURL
	}
	if p.ImageURL != nil {
		d.ImageURL = *p.ImageURL
	}
	if p.Rating != nil {
		d.Rating = formatFloat(*p.Rating)
	}
	if p.ReviewCount != nil {
		d.ReviewCount = strconv.Itoa(*p.ReviewCount)
	}
	return d
}

// DraftPatch carries a partial form update; nil fields are left untouched.
type DraftPatch struct {
	Category    *string `json:"category,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Name        *string `json:"name,omitempty"`
	Price       *string `json:"price,omitempty"`
	Shade       *string `json:"shade,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Retailer    *string `json:"retailer,omitempty"`
	ProductURL  *string `json:"productUrl,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Rating      *string `json:"rating,omitempty"`
	ReviewCount *string `json:"reviewCount,omitempty"`
}

// Apply returns the draft with the patch's fields overwritten.
func (d Draft) Apply(p DraftPatch) Draft {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.Category, p.Category)
	set(&d.Brand, p.Brand)
	set(&d.Name, p.Name)
	set(&d.Price, p.Price)
	set(&d.Shade, p.Shade)
	set(&d.Notes, p.Notes)
	set(&d.Retailer, p.Retailer)
	set(&d.ProductURL, p.ProductURL)
	set(&d.ImageURL, p.ImageURL)
	set(&d.Rating, p.Rating)
	set(&d.ReviewCount, p.ReviewCount)
	return d
}

// Build converts the draft into a product with the given id. The category
// must belong to tab. Required fields are checked before anything is parsed.
func (d Draft) Build(id ProductID, tab Tab) (Product, error) {
	if d.Category == "" || d.Brand == "" || d.Name == "" || d.Price == "" {
		return Product{}, dErrors.New(dErrors.CodeValidation, MsgRequiredFields)
	}

	category := Category(d.Category)
	if !tab.Has(category) {
		return Product{}, dErrors.Newf(dErrors.CodeValidation, "category %q is not part of the %s tab", d.Category, tab)
	}

	retailer := DefaultRetailer
	if d.Retailer != "" {
		retailer = Retailer(d.Retailer)
	}
	if !retailer.IsValid() {
		return Product{}, dErrors.Newf(dErrors.CodeValidation, "unknown retailer %q", d.Retailer)
	}

	price, err := parseNumber(d.Price)
	if err != nil {
		return Product{}, dErrors.Newf(dErrors.CodeValidation, "price %q is not a number", d.Price)
	}

	p := Product{
		ID:         id,
		Category:   category,
		Brand:      d.Brand,
		Name:       d.Name,
		Price:      price,
		Shade:      Optional(d.Shade),
		Notes:      Optional(d.Notes),
		Retailer:   retailer,
		ProductURL: Optional(d.ProductURL),
		ImageURL:   Optional(d.ImageURL),
	}

	if d.Rating != "" {
		rating, err := parseNumber(d.Rating)
		if err != nil {
			return Product{}, dErrors.Newf(dErrors.CodeValidation, "rating %q is not a number", d.Rating)
		}
		p.Rating = &rating
	}
	if d.ReviewCount != "" {
		count, err := strconv.Atoi(d.ReviewCount)
		if err != nil {
			return Product{}, dErrors.Newf(dErrors.CodeValidation, "review count %q is not a whole number", d.ReviewCount)
		}
		p.ReviewCount = &count
	}

	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

package transfer

import (
	"bytes"
	"encoding/json"

	"beautylist/internal/catalog/models"
	dErrors "beautylist/pkg/domain-errors"
)

// jsonRecord mirrors models.Product with required fields as pointers so a
// missing field can be told apart from a zero value.
type jsonRecord struct {
	ID          *models.ProductID `json:"id"`
	Category    *models.Category  `json:"category"`
	Brand       *string           `json:"brand"`
	Name        *string           `json:"name"`
	Price       *float64          `json:"price"`
	Shade       *string           `json:"shade"`
	Notes       *string           `json:"notes"`
	Retailer    *models.Retailer  `json:"retailer"`
	ProductURL  *string           `json:"productUrl"`
	ImageURL    *string           `json:"imageUrl"`
	Rating      *float64          `json:"rating"`
	ReviewCount *int              `json:"reviewCount"`
}

func (r jsonRecord) product() (models.Product, error) {
	switch {
	case r.ID == nil:
		return models.Product{}, dErrors.New(dErrors.CodeValidation, "missing field \"id\"")
	case r.Category == nil:
		return models.Product{}, dErrors.New(dErrors.CodeValidation, "missing field \"category\"")
	case r.Brand == nil:
		return models.Product{}, dErrors.New(dErrors.CodeValidation, "missing field \"brand\"")
	case r.Name == nil:
		return models.Product{}, dErrors.New(dErrors.CodeValidation, "missing field \"name\"")
	case r.Price == nil:
		return models.Product{}, dErrors.New(dErrors.CodeValidation, "missing field \"price\"")
	case r.Retailer == nil:
		return models.Product{}, dErrors.New(dErrors.CodeValidation, "missing field \"retailer\"")
	}

	p := models.Product{
		ID:          *r.ID,
		Category:    *r.Category,
		Brand:       *r.Brand,
		Name:        *r.Name,
		Price:       *r.Price,
		Shade:       nonEmpty(r.Shade),
		Notes:       nonEmpty(r.Notes),
		Retailer:    *r.Retailer,
		ProductURL:  nonEmpty(r.ProductURL),
		ImageURL:    nonEmpty(r.ImageURL),
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
	}
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func exportJSON(products []models.Product) ([]byte, error) {
	if products == nil {
		products = []models.Product{}
	}
	out, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode export document")
	}
	return out, nil
}

func importJSON(raw []byte) ([]models.Product, error) {
	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return nil, dErrors.New(dErrors.CodeInvalidImport, "import document is not valid JSON")
	}
	if trimmed[0] != '[' {
		return nil, dErrors.New(dErrors.CodeInvalidImport, "import document must be a JSON array of products")
	}

	var records []jsonRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidImport, "import document is not a valid product list")
	}

	products := make([]models.Product, 0, len(records))
	for i, r := range records {
		p, err := r.product()
		if err != nil {
			return nil, recordError(i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

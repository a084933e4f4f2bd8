package transfer

import (
	"bytes"

	"github.com/gocarina/gocsv"

	"beautylist/internal/catalog/models"
	dErrors "beautylist/pkg/domain-errors"
)

// csvRow is the flat CSV layout. Every cell is text so empty cells map back
// to absent optional fields.
type csvRow struct {
	ID          string `csv:"id"`
	Category    string `csv:"category"`
	Brand       string `csv:"brand"`
	Name        string `csv:"name"`
	Price       string `csv:"price"`
	Shade       string `csv:"shade"`
	Notes       string `csv:"notes"`
	Retailer    string `csv:"retailer"`
	ProductURL  string `csv:"productUrl"`
	ImageURL    string `csv:"imageUrl"`
	Rating      string `csv:"rating"`
	ReviewCount string `csv:"reviewCount"`
}

func rowFromProduct(p models.Product) csvRow {
	d := models.DraftFromProduct(p)
	return csvRow{
		ID:          string(p.ID),
		Category:    d.Category,
		Brand:       d.Brand,
		Name:        d.Name,
		Price:       d.Price,
		Shade:       d.Shade,
		Notes:       d.Notes,
		Retailer:    d.Retailer,
		ProductURL:  d.ProductURL,
		ImageURL:    d.ImageURL,
		Rating:      d.Rating,
		ReviewCount: d.ReviewCount,
	}
}

// product parses a row with the same rules as the product form, against the
// tab that owns the row's category.
func (r csvRow) product() (models.Product, error) {
	if r.ID == "" {
		return models.Product{}, dErrors.New(dErrors.CodeValidation, "missing field \"id\"")
	}
	tab, ok := models.Category(r.Category).Tab()
	if !ok {
		return models.Product{}, dErrors.Newf(dErrors.CodeValidation, "unknown category %q", r.Category)
	}
	if r.Retailer == "" {
		return models.Product{}, dErrors.New(dErrors.CodeValidation, "missing field \"retailer\"")
	}
	d := models.Draft{
		Category:    r.Category,
		Brand:       r.Brand,
		Name:        r.Name,
		Price:       r.Price,
		Shade:       r.Shade,
		Notes:       r.Notes,
		Retailer:    r.Retailer,
		ProductURL:  r.ProductURL,
		ImageURL:    r.ImageURL,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
	}
	return d.Build(models.ProductID(r.ID), tab)
}

func exportCSV(products []models.Product) ([]byte, error) {
	rows := make([]*csvRow, 0, len(products))
	for _, p := range products {
		row := rowFromProduct(p)
		rows = append(rows, &row)
	}
	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode csv export")
	}
	return buf.Bytes(), nil
}

func importCSV(raw []byte) ([]models.Product, error) {
	var rows []*csvRow
	if err := gocsv.UnmarshalBytes(raw, &rows); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidImport, "import document is not a valid product csv")
	}

	products := make([]models.Product, 0, len(rows))
	for i, r := range rows {
		p, err := r.product()
		if err != nil {
			return nil, recordError(i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// Package transfer serializes the whole product store to a portable document
// and parses such documents back.
package transfer

import (
	"fmt"
	"io"
	"time"

	"beautylist/internal/catalog/models"
	dErrors "beautylist/pkg/domain-errors"
)

// Format is a supported document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DefaultPrefix is the file name prefix of exported documents.
const DefaultPrefix = "beauty-list"

// ParseFormat validates a format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", dErrors.Newf(dErrors.CodeBadRequest, "unsupported format %q: must be 'json' or 'csv'", s)
}

// ContentType returns the MIME type of documents in f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

// Filename builds the download name, e.g. beauty-list-1700000000000.json.
func Filename(prefix string, f Format, at time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-%d.%s", prefix, at.UnixMilli(), f)
}

// Document is an exported store ready for download.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Export serializes every product, in store order.
func Export(products []models.Product, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return exportJSON(products)
	case FormatCSV:
		return exportCSV(products)
	}
	return nil, dErrors.Newf(dErrors.CodeBadRequest, "unsupported format %q", f)
}

// Import reads a whole document and returns its products. Nothing is
// returned unless every record is valid and ids are unique.
func Import(r io.Reader, f Format) ([]models.Product, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidImport, "could not read import document")
	}

	var products []models.Product
	switch f {
	case FormatJSON:
		products, err = importJSON(raw)
	case FormatCSV:
		products, err = importCSV(raw)
	default:
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unsupported format %q", f)
	}
	if err != nil {
		return nil, err
	}

	if err := checkUniqueIDs(products); err != nil {
		return nil, err
	}
	return products, nil
}

func checkUniqueIDs(products []models.Product) error {
	seen := make(map[models.ProductID]int, len(products))
	for i, p := range products {
		if first, dup := seen[p.ID]; dup {
			return dErrors.Newf(dErrors.CodeInvalidImport, "product %d: id %q already used by product %d", i+1, p.ID, first+1)
		}
		seen[p.ID] = i
	}
	return nil
}

func recordError(index int, err error) error {
	return dErrors.Wrap(err, dErrors.CodeInvalidImport, fmt.Sprintf("product %d is invalid", index+1))
}

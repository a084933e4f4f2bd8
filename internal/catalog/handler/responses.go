package handler

import (
	"beautylist/internal/catalog/models"
	"beautylist/pkg/platform/httputil"
)

type productResponse struct {
	Product *models.Product `json:"product"`
	Notices []models.Notice `json:"notices,omitempty"`
}

type productListResponse struct {
	Products []models.Product `json:"products"`
	Count    int              `json:"count"`
}

type deleteResponse struct {
	ID      models.ProductID `json:"id"`
	Deleted bool             `json:"deleted"`
}

type importResponse struct {
	Imported int             `json:"imported"`
	Notices  []models.Notice `json:"notices,omitempty"`
}

type failureResponse struct {
	httputil.ErrorResponse
	Notices []models.Notice `json:"notices,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

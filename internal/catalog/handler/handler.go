package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"beautylist/internal/catalog/models"
	"beautylist/internal/catalog/service"
	"beautylist/internal/catalog/transfer"
	dErrors "beautylist/pkg/domain-errors"
	"beautylist/pkg/platform/httputil"
	"beautylist/pkg/requestcontext"
)

// DefaultMaxImportBytes caps the size of an uploaded import document.
const DefaultMaxImportBytes int64 = 10 << 20

// Service defines the session operations exposed over HTTP.
type Service interface {
	Taxonomy() models.Taxonomy
	Query() models.Query
	ApplyQuery(ctx context.Context, u service.QueryUpdate) (models.Query, error)
	View(ctx context.Context) (models.ViewModel, error)
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id models.ProductID) (*models.Product, error)
	DraftState() models.DraftState
	BeginCreate(ctx context.Context) models.DraftState
	BeginEdit(ctx context.Context, id models.ProductID) (models.DraftState, error)
	UpdateDraft(patch models.DraftPatch) (models.DraftState, error)
	Cancel() models.DraftState
	Submit(ctx context.Context, prompter service.Prompter) (*models.Product, error)
	SubmitForm(ctx context.Context, form models.Draft, prompter service.Prompter) (*models.Product, error)
	Delete(ctx context.Context, id models.ProductID, prompter service.Prompter) (bool, error)
	Export(ctx context.Context, format transfer.Format) (transfer.Document, error)
	Import(ctx context.Context, r io.Reader, format transfer.Format, prompter service.Prompter) (int, error)
}

// Handler serves the catalog endpoints.
type Handler struct {
	logger         *slog.Logger
	catalog        Service
	maxImportBytes int64
}

// New creates a catalog Handler.
func New(catalog Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:         logger,
		catalog:        catalog,
		maxImportBytes: DefaultMaxImportBytes,
	}
}

// WithMaxImportBytes overrides the import body limit.
func (h *Handler) WithMaxImportBytes(n int64) *Handler {
	if n > 0 {
		h.maxImportBytes = n
	}
	return h
}

// Register registers the catalog routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/catalog", h.handleGetCatalog)
	r.Get("/catalog/taxonomy", h.handleGetTaxonomy)
	r.Put("/catalog/query", h.handleSetQuery)

	r.Get("/products", h.handleListProducts)
	r.Post("/products", h.handleCreateProduct)
	r.Get("/products/{id}", h.handleGetProduct)
	r.Delete("/products/{id}", h.handleDeleteProduct)
	r.Post("/products/{id}/edit", h.handleBeginEdit)

	r.Get("/draft", h.handleGetDraft)
	r.Post("/draft", h.handleBeginCreate)
	r.Patch("/draft", h.handleUpdateDraft)
	r.Delete("/draft", h.handleCancelDraft)
	r.Post("/draft/submit", h.handleSubmitDraft)

	r.Get("/export", h.handleExport)
	r.Post("/import", h.handleImport)

	r.Get("/healthz", h.handleHealth)
}

func (h *Handler) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := r.URL.Query()
	var update service.QueryUpdate
	if params.Has("tab") {
		v := params.Get("tab")
		update.Tab = &v
	}
	if params.Has("q") {
		v := params.Get("q")
		update.Search = &v
	}
	if params.Has("retailer") {
		v := params.Get("retailer")
		update.Retailer = &v
	}
	if update != (service.QueryUpdate{}) {
		if _, err := h.catalog.ApplyQuery(ctx, update); err != nil {
			h.writeFailure(ctx, w, err, nil)
			return
		}
	}

	vm, err := h.catalog.View(ctx)
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vm)
}

func (h *Handler) handleGetTaxonomy(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.catalog.Taxonomy())
}

func (h *Handler) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var update service.QueryUpdate
	if err := decodeJSON(r, &update); err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	q, err := h.catalog.ApplyQuery(ctx, update)
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.catalog.Products(ctx)
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	httputil.WriteJSON(w, http.StatusOK, productListResponse{Products: products, Count: len(products)})
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.catalog.Product(ctx, productID(r))
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, productResponse{Product: p})
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var form models.Draft
	if err := decodeJSON(r, &form); err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	prompter := newRequestPrompter(r)
	p, err := h.catalog.SubmitForm(ctx, form, prompter)
	if err != nil {
		h.writeFailure(ctx, w, err, prompter.Notices())
		return
	}
	w.Header().Set("Location", "/products/"+string(p.ID))
	httputil.WriteJSON(w, http.StatusCreated, productResponse{Product: p, Notices: prompter.Notices()})
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := productID(r)
	deleted, err := h.catalog.Delete(ctx, id, newRequestPrompter(r))
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deleteResponse{ID: id, Deleted: deleted})
}

func (h *Handler) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := h.catalog.BeginEdit(ctx, productID(r))
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.catalog.DraftState())
}

func (h *Handler) handleBeginCreate(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.catalog.BeginCreate(r.Context()))
}

func (h *Handler) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var patch models.DraftPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	state, err := h.catalog.UpdateDraft(patch)
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) handleCancelDraft(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.catalog.Cancel())
}

func (h *Handler) handleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	prompter := newRequestPrompter(r)
	p, err := h.catalog.Submit(ctx, prompter)
	if err != nil {
		h.writeFailure(ctx, w, err, prompter.Notices())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, productResponse{Product: p, Notices: prompter.Notices()})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	doc, err := h.catalog.Export(ctx, format)
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		h.logger.WarnContext(ctx, "failed to write export",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeFailure(ctx, w, err, nil)
		return
	}
	prompter := newRequestPrompter(r)
	body := http.MaxBytesReader(w, r.Body, h.maxImportBytes)
	n, err := h.catalog.Import(ctx, body, format, prompter)
	if err != nil {
		h.writeFailure(ctx, w, err, prompter.Notices())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, importResponse{Imported: n, Notices: prompter.Notices()})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, err error, notices []models.Notice) {
	status, body := httputil.NewErrorResponse(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "catalog request failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else if !dErrors.HasCode(err, dErrors.CodeNotFound) {
		h.logger.WarnContext(ctx, "catalog request rejected",
			"request_id", requestcontext.RequestID(ctx),
			"code", body.Error,
			"error", err,
		)
	}
	httputil.WriteJSON(w, status, failureResponse{ErrorResponse: body, Notices: notices})
}

func productID(r *http.Request) models.ProductID {
	return models.ProductID(chi.URLParam(r, "id"))
}

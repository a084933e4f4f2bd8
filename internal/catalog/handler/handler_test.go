package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"beautylist/internal/catalog/models"
	"beautylist/internal/catalog/service"
	"beautylist/internal/catalog/store"
	"beautylist/pkg/testutil"
)

type CatalogHandlerSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemory
	handler *Handler
	router  chi.Router
}

func TestCatalogHandlerSuite(t *testing.T) {
	suite.Run(t, new(CatalogHandlerSuite))
}

func (s *CatalogHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()

	n := 0
	svc, err := service.New(s.store, service.WithIDGenerator(func() models.ProductID {
		n++
		return models.ProductID(fmt.Sprintf("p-%d", n))
	}))
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.handler = New(svc, logger)
	s.router = chi.NewRouter()
	s.handler.Register(s.router)
}

func (s *CatalogHandlerSuite) seed(products ...models.Product) {
	for _, p := range products {
		s.Require().NoError(s.store.Append(s.ctx, p))
	}
}

func (s *CatalogHandlerSuite) do(req *http.Request) (int, string) {
	rr := testutil.DoRequest(s.router, req)
	return rr.Code, rr.Body.String()
}

func cleanser() models.Product {
	return models.Product{
		ID:       "c1",
		Category: models.CategoryCleanser,
		Brand:    "CeraVe",
		Name:     "Hydrating Cleanser",
		Price:    14.99,
		Retailer: models.RetailerUlta,
	}
}

func mascara() models.Product {
	return models.Product{
		ID:       "m1",
		Category: models.CategoryMascara,
		Brand:    "Maybelline",
		Name:     "Sky High",
		Price:    12,
		Retailer: models.RetailerUlta,
	}
}

func (s *CatalogHandlerSuite) TestGetCatalog() {
	s.seed(cleanser(), mascara())

	s.Run("defaults to the skincare tab", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/catalog", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		vm := testutil.Decode[models.ViewModel](s.T(), rr)
		s.Equal(models.TabSkincare, vm.Query.Tab)
		s.Equal(1, vm.MatchCount)
		s.Equal("14.99", vm.Total.String())
		s.Len(vm.Groups, len(models.TabSkincare.Categories()))
	})

	s.Run("query parameters update the session", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/catalog?tab=makeup&q=SKY", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		vm := testutil.Decode[models.ViewModel](s.T(), rr)
		s.Equal(models.TabMakeup, vm.Query.Tab)
		s.True(vm.Filtered)
		s.Len(vm.Group(models.CategoryMascara), 1)

		rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/catalog", nil))
		vm = testutil.Decode[models.ViewModel](s.T(), rr)
		s.Equal("SKY", vm.Query.Search)
	})

	s.Run("unknown tab", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/catalog?tab=hair", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "invalid_input")
	})
}

func (s *CatalogHandlerSuite) TestSetQuery() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/catalog/query", map[string]string{
		"retailer": "Olive Young",
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	q := testutil.Decode[models.Query](s.T(), rr)
	s.Equal(models.RetailerOliveYoung, q.Retailer)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/catalog/query", map[string]string{
		"retailer": "Target",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "invalid_input")
}

func (s *CatalogHandlerSuite) TestTaxonomy() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/catalog/taxonomy", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Contains(rr.Body.String(), `"Olive Young"`)
	s.Contains(rr.Body.String(), `"Brow Product"`)
}

func (s *CatalogHandlerSuite) TestCreateProduct() {
	s.Run("creates from a complete form", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/products", models.Draft{
			Category: "Serum",
			Brand:    "The Ordinary",
			Name:     "Niacinamide 10%",
			Price:    "7.90",
			Retailer: "Ulta",
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		s.Equal("/products/p-1", rr.Header().Get("Location"))

		body := testutil.Decode[productResponse](s.T(), rr)
		s.Require().NotNil(body.Product)
		s.Equal(7.9, body.Product.Price)
		s.Empty(body.Notices)
	})

	s.Run("missing fields return the required fields notice", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/products", models.Draft{Brand: "MAC"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "validation_error")

		body := testutil.Decode[failureResponse](s.T(), rr)
		s.Require().Len(body.Notices, 1)
		s.Equal(models.MsgRequiredFields, body.Notices[0].Message)
		s.Equal(models.NoticeError, body.Notices[0].Kind)
	})

	s.Run("unknown form field", func() {
		req := testutil.NewRequestWithBody(http.MethodPost, "/products", "application/json", `{"colour": "red"}`)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *CatalogHandlerSuite) TestProducts() {
	s.seed(cleanser(), mascara())

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/products", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	list := testutil.Decode[productListResponse](s.T(), rr)
	s.Equal(2, list.Count)
	s.Equal(models.ProductID("c1"), list.Products[0].ID)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/products/m1", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/products/nope", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *CatalogHandlerSuite) TestDeleteProduct() {
	s.seed(cleanser(), mascara())

	s.Run("without confirmation nothing is deleted", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete, "/products/c1", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.False(testutil.Decode[deleteResponse](s.T(), rr).Deleted)
		s.Equal(2, s.count())
	})

	s.Run("confirm query parameter", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete, "/products/c1?confirm=true", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.True(testutil.Decode[deleteResponse](s.T(), rr).Deleted)
		s.Equal(1, s.count())
	})

	s.Run("confirm header", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodDelete, "/products/m1", nil)
		req.Header.Set(ConfirmHeader, "yes")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(0, s.count())
	})

	s.Run("confirmed delete of a missing product", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete, "/products/c1?confirm=1", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *CatalogHandlerSuite) count() int {
	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	return n
}

func (s *CatalogHandlerSuite) TestDraftFlow() {
	s.seed(mascara())

	s.Run("patch without an open form", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPatch, "/draft", map[string]string{"brand": "x"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("create through the draft", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/draft", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		state := testutil.Decode[models.DraftState](s.T(), rr)
		s.Equal(models.FormCreate, state.Mode)
		s.Equal("Sephora", state.Draft.Retailer)

		rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPatch, "/draft", map[string]string{
			"category": "Sunscreen",
			"brand":    "Beauty of Joseon",
			"name":     "Relief Sun",
			"price":    "18",
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/draft/submit", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.Decode[productResponse](s.T(), rr)
		s.Equal(models.CategorySunscreen, body.Product.Category)
		s.Equal(2, s.count())

		rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/draft", nil))
		s.Equal(models.FormClosed, testutil.Decode[models.DraftState](s.T(), rr).Mode)
	})

	s.Run("edit switches tab and replaces in place", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/products/m1/edit", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		state := testutil.Decode[models.DraftState](s.T(), rr)
		s.Equal(models.FormEdit, state.Mode)
		s.Equal("Sky High", state.Draft.Name)
		s.Contains(state.Options, models.CategoryMascara)

		rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPatch, "/draft", map[string]string{"price": "10.5"}))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/draft/submit", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		p, err := s.store.FindByID(s.ctx, "m1")
		s.Require().NoError(err)
		s.Equal(10.5, p.Price)
	})

	s.Run("cancel closes the form", func() {
		testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/draft", nil))
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete, "/draft", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(models.FormClosed, testutil.Decode[models.DraftState](s.T(), rr).Mode)
	})
}

func (s *CatalogHandlerSuite) TestExportImport() {
	s.seed(cleanser(), mascara())

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/export", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal("application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	s.Regexp(`^attachment; filename="beauty-list-\d+\.json"$`, rr.Header().Get("Content-Disposition"))
	exported := rr.Body.String()

	s.Run("csv export", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/export?format=csv", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Contains(rr.Header().Get("Content-Disposition"), ".csv")
	})

	s.Run("unsupported format", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/export?format=xml", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("import replaces the store", func() {
		s.Require().NoError(s.store.ReplaceAll(s.ctx, nil))
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(http.MethodPost, "/import", "application/json", exported))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		body := testutil.Decode[importResponse](s.T(), rr)
		s.Equal(2, body.Imported)
		s.Require().Len(body.Notices, 1)
		s.Equal(models.MsgImportSucceeded, body.Notices[0].Message)
		s.Equal(2, s.count())
	})

	s.Run("malformed import keeps the store", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(http.MethodPost, "/import", "application/json", `[{"id": "1",`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_import")

		body := testutil.Decode[failureResponse](s.T(), rr)
		s.Require().Len(body.Notices, 1)
		s.Equal(models.MsgImportFailed, body.Notices[0].Message)
		s.Equal(2, s.count())
	})

	s.Run("oversized import", func() {
		s.handler.WithMaxImportBytes(16)
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(http.MethodPost, "/import", "application/json", strings.Repeat(" ", 64)+exported))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_import")
		s.Equal(2, s.count())
	})
}

func (s *CatalogHandlerSuite) TestHealth() {
	code, body := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, code)
	s.JSONEq(`{"status": "ok"}`, body)
}

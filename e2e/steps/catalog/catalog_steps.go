package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path string, body any, headers map[string]string) error
	GET(path string) error
	POST(path string, body any) error
	Status() int
	Body() []byte
	DecodeBody(v any) error
	Save(name string)
	Saved(name string) ([]byte, bool)
}

// RegisterSteps registers catalog step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &catalogSteps{tc: tc}

	ctx.Step(`^the catalog contains:$`, steps.catalogContains)
	ctx.Step(`^I view the "([^"]*)" tab$`, steps.viewTab)
	ctx.Step(`^I view the "([^"]*)" tab searching for "([^"]*)"$`, steps.viewTabSearching)
	ctx.Step(`^I view the "([^"]*)" tab filtered by retailer "([^"]*)"$`, steps.viewTabFilteredByRetailer)
	ctx.Step(`^I submit a product form:$`, steps.submitProductForm)
	ctx.Step(`^I delete product "([^"]*)" and (confirm|decline)$`, steps.deleteProduct)
	ctx.Step(`^I edit product "([^"]*)" setting "([^"]*)" to "([^"]*)"$`, steps.editProduct)
	ctx.Step(`^I export the catalog as "([^"]*)"$`, steps.exportCatalog)
	ctx.Step(`^I import the saved "([^"]*)" export$`, steps.importSaved)
	ctx.Step(`^I import the document:$`, steps.importDocument)

	ctx.Step(`^the view should list (\d+) products?$`, steps.viewShouldList)
	ctx.Step(`^the category "([^"]*)" should list "([^"]*)"$`, steps.categoryShouldList)
	ctx.Step(`^the category "([^"]*)" should be empty$`, steps.categoryShouldBeEmpty)
	ctx.Step(`^the total should be "([^"]*)"$`, steps.totalShouldBe)
	ctx.Step(`^the retailer breakdown should be:$`, steps.retailerBreakdownShouldBe)
	ctx.Step(`^the catalog should hold products "([^"]*)"$`, steps.catalogShouldHold)
	ctx.Step(`^product "([^"]*)" should have "([^"]*)" equal to "([^"]*)"$`, steps.productShouldHave)
}

type catalogSteps struct {
	tc   TestContext
	view viewModel
}

type viewModel struct {
	Groups []struct {
		Category string    `json:"category"`
		Products []product `json:"products"`
	} `json:"groups"`
	Total     string `json:"total"`
	Retailers []struct {
		Retailer string `json:"retailer"`
		Subtotal string `json:"subtotal"`
		Count    int    `json:"count"`
	} `json:"retailers"`
	MatchCount int `json:"matchCount"`
}

type product map[string]any

func (p product) name() string {
	s, _ := p["name"].(string)
	return s
}

func (s *catalogSteps) catalogContains(_ context.Context, table *godog.Table) error {
	records, err := tableRecords(table)
	if err != nil {
		return err
	}
	products := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		p := make(map[string]any, len(rec))
		for k, v := range rec {
			switch k {
			case "price", "rating":
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("column %s: %w", k, err)
				}
				p[k] = f
			default:
				p[k] = v
			}
		}
		products = append(products, p)
	}
	if err := s.tc.POST("/import", products); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("seeding catalog failed with %d: %s", s.tc.Status(), string(s.tc.Body()))
	}
	return nil
}

func (s *catalogSteps) viewTab(ctx context.Context, tab string) error {
	return s.viewWith(url.Values{"tab": {tab}})
}

func (s *catalogSteps) viewTabSearching(ctx context.Context, tab, search string) error {
	return s.viewWith(url.Values{"tab": {tab}, "q": {search}})
}

func (s *catalogSteps) viewTabFilteredByRetailer(ctx context.Context, tab, retailer string) error {
	return s.viewWith(url.Values{"tab": {tab}, "retailer": {retailer}})
}

func (s *catalogSteps) viewWith(params url.Values) error {
	if err := s.tc.GET("/catalog?" + params.Encode()); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return nil
	}
	s.view = viewModel{}
	return s.tc.DecodeBody(&s.view)
}

func (s *catalogSteps) submitProductForm(_ context.Context, table *godog.Table) error {
	form, err := tableFields(table)
	if err != nil {
		return err
	}
	return s.tc.POST("/products", form)
}

func (s *catalogSteps) deleteProduct(_ context.Context, id, answer string) error {
	path := "/products/" + url.PathEscape(id)
	if answer == "confirm" {
		path += "?confirm=true"
	}
	return s.tc.Do(http.MethodDelete, path, nil, nil)
}

func (s *catalogSteps) editProduct(_ context.Context, id, field, value string) error {
	if err := s.tc.POST("/products/"+url.PathEscape(id)+"/edit", nil); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("begin edit failed with %d: %s", s.tc.Status(), string(s.tc.Body()))
	}
	if err := s.tc.Do(http.MethodPatch, "/draft", map[string]string{field: value}, nil); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("draft update failed with %d: %s", s.tc.Status(), string(s.tc.Body()))
	}
	return s.tc.POST("/draft/submit", nil)
}

func (s *catalogSteps) exportCatalog(_ context.Context, format string) error {
	if err := s.tc.GET("/export?format=" + url.QueryEscape(format)); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("export failed with %d: %s", s.tc.Status(), string(s.tc.Body()))
	}
	s.tc.Save(format)
	return nil
}

func (s *catalogSteps) importSaved(_ context.Context, format string) error {
	doc, ok := s.tc.Saved(format)
	if !ok {
		return fmt.Errorf("no %s export saved", format)
	}
	return s.tc.POST("/import?format="+url.QueryEscape(format), doc)
}

func (s *catalogSteps) importDocument(_ context.Context, doc *godog.DocString) error {
	return s.tc.POST("/import", doc.Content)
}

func (s *catalogSteps) viewShouldList(_ context.Context, n int) error {
	if s.view.MatchCount != n {
		return fmt.Errorf("expected %d matching products, got %d", n, s.view.MatchCount)
	}
	return nil
}

func (s *catalogSteps) categoryShouldList(_ context.Context, category, names string) error {
	got, err := s.groupNames(category)
	if err != nil {
		return err
	}
	want := splitList(names)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return fmt.Errorf("category %s lists %v, want %v", category, got, want)
	}
	return nil
}

func (s *catalogSteps) categoryShouldBeEmpty(_ context.Context, category string) error {
	got, err := s.groupNames(category)
	if err != nil {
		return err
	}
	if len(got) != 0 {
		return fmt.Errorf("category %s lists %v, want none", category, got)
	}
	return nil
}

func (s *catalogSteps) groupNames(category string) ([]string, error) {
	for _, g := range s.view.Groups {
		if g.Category != category {
			continue
		}
		names := make([]string, 0, len(g.Products))
		for _, p := range g.Products {
			names = append(names, p.name())
		}
		return names, nil
	}
	return nil, fmt.Errorf("category %s is not shown", category)
}

func (s *catalogSteps) totalShouldBe(_ context.Context, total string) error {
	if s.view.Total != total {
		return fmt.Errorf("expected total %s, got %s", total, s.view.Total)
	}
	return nil
}

func (s *catalogSteps) retailerBreakdownShouldBe(_ context.Context, table *godog.Table) error {
	records, err := tableRecords(table)
	if err != nil {
		return err
	}
	if len(records) != len(s.view.Retailers) {
		return fmt.Errorf("expected %d retailer lines, got %d", len(records), len(s.view.Retailers))
	}
	for i, rec := range records {
		got := s.view.Retailers[i]
		if got.Retailer != rec["retailer"] || got.Subtotal != rec["subtotal"] || strconv.Itoa(got.Count) != rec["count"] {
			return fmt.Errorf("line %d: got %s %s (%d), want %v", i+1, got.Retailer, got.Subtotal, got.Count, rec)
		}
	}
	return nil
}

func (s *catalogSteps) catalogShouldHold(_ context.Context, ids string) error {
	if err := s.tc.GET("/products"); err != nil {
		return err
	}
	var body struct {
		Products []product `json:"products"`
	}
	if err := s.tc.DecodeBody(&body); err != nil {
		return err
	}
	got := make([]string, 0, len(body.Products))
	for _, p := range body.Products {
		id, _ := p["id"].(string)
		got = append(got, id)
	}
	want := splitList(ids)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return fmt.Errorf("catalog holds %v, want %v", got, want)
	}
	return nil
}

func (s *catalogSteps) productShouldHave(_ context.Context, id, field, value string) error {
	if err := s.tc.GET("/products/" + url.PathEscape(id)); err != nil {
		return err
	}
	var body struct {
		Product product `json:"product"`
	}
	if err := s.tc.DecodeBody(&body); err != nil {
		return err
	}
	raw, err := json.Marshal(body.Product[field])
	if err != nil {
		return err
	}
	got := strings.Trim(string(raw), `"`)
	if got != value {
		return fmt.Errorf("product %s field %s is %s, want %s", id, field, got, value)
	}
	return nil
}

// tableRecords reads a table whose first row is a header.
func tableRecords(table *godog.Table) ([]map[string]string, error) {
	if len(table.Rows) < 1 {
		return nil, fmt.Errorf("table needs a header row")
	}
	header := table.Rows[0].Cells
	out := make([]map[string]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		rec := make(map[string]string, len(header))
		for i, cell := range row.Cells {
			if cell.Value != "" {
				rec[header[i].Value] = cell.Value
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// tableFields reads a two-column field/value table.
func tableFields(table *godog.Table) (map[string]string, error) {
	out := make(map[string]string, len(table.Rows))
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return nil, fmt.Errorf("expected field/value rows")
		}
		out[row.Cells[0].Value] = row.Cells[1].Value
	}
	return out, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

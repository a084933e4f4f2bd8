package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beautylist/internal/catalog/models"
	"beautylist/pkg/testutil"
)

func product(id string, c models.Category, brand, name string, price float64, r models.Retailer) models.Product {
	return models.Product{
		ID:       models.ProductID(id),
		Category: c,
		Brand:    brand,
		Name:     name,
		Price:    price,
		Retailer: r,
	}
}

func cerave() models.Product {
	return product("1", models.CategoryCleanser, "CeraVe", "Foaming Cleanser", 14.99, models.RetailerUlta)
}

func mixedStore() []models.Product {
	return []models.Product{
		cerave(),
		product("2", models.CategoryLipstick, "MAC", "Ruby Woo", 23, models.RetailerSephora),
		product("3", models.CategorySerum, "The Ordinary", "Niacinamide 10%", 6.5, models.RetailerUlta),
		product("4", models.CategorySunscreen, "Beauty of Joseon", "Relief Sun", 18, models.RetailerOliveYoung),
		product("5", models.CategoryCleanser, "Banila Co", "Clean It Zero", 19.8, models.RetailerYesStyle),
		product("6", models.CategoryMascara, "Maybelline", "Sky High", 11.49, models.RetailerUlta),
	}
}

func TestDeriveScenarios(t *testing.T) {
	testutil.Given(t, "a store with one CeraVe cleanser from Ulta", func(t *testing.T) {
		store := []models.Product{cerave()}

		testutil.When(t, "viewing skincare with no filters", func(t *testing.T) {
			vm := Derive(store, models.DefaultQuery(models.TabSkincare))

			testutil.Then(t, "one item is grouped under Cleanser with matching totals", func(t *testing.T) {
				require.Len(t, vm.Group(models.CategoryCleanser), 1)
				assert.Equal(t, "Foaming Cleanser", vm.Group(models.CategoryCleanser)[0].Name)
				assert.Equal(t, "14.99", vm.Total.String())
				require.Len(t, vm.Retailers, 1)
				assert.Equal(t, "Ulta: $14.99 (1)", vm.Retailers[0].String())
				assert.False(t, vm.Filtered)
			})
		})

		testutil.When(t, "searching for lowercase brand", func(t *testing.T) {
			q := models.DefaultQuery(models.TabSkincare)
			q.Search = "cerave"
			vm := Derive(store, q)

			testutil.Then(t, "the product still matches", func(t *testing.T) {
				assert.Equal(t, 1, vm.MatchCount)
				assert.Equal(t, "14.99", vm.Total.String())
			})
		})

		testutil.When(t, "searching for a retailer name", func(t *testing.T) {
			q := models.DefaultQuery(models.TabSkincare)
			q.Search = "sephora"
			vm := Derive(store, q)

			testutil.Then(t, "nothing matches and the total is zero", func(t *testing.T) {
				assert.Zero(t, vm.MatchCount)
				assert.Equal(t, "0.00", vm.Total.String())
				assert.Empty(t, vm.Retailers)
				assert.Equal(t, 1, vm.TabCount)
				assert.True(t, vm.Filtered)
			})
		})

		testutil.When(t, "viewing the makeup tab", func(t *testing.T) {
			vm := Derive(store, models.DefaultQuery(models.TabMakeup))

			testutil.Then(t, "the skincare product is hidden", func(t *testing.T) {
				assert.Zero(t, vm.TabCount)
				assert.Nil(t, vm.Group(models.CategoryCleanser))
			})
			testutil.And(t, "every makeup category is shown empty", func(t *testing.T) {
				assert.Len(t, vm.Groups, len(models.TabMakeup.Categories()))
				assert.Empty(t, vm.Group(models.CategoryMascara))
			})
		})
	})
}

func TestDeriveEmptyStore(t *testing.T) {
	for _, tab := range models.Tabs {
		t.Run(string(tab), func(t *testing.T) {
			vm := Derive(nil, models.DefaultQuery(tab))
			assert.Equal(t, "0.00", vm.Total.String())
			assert.Empty(t, vm.Retailers)
			require.Len(t, vm.Groups, len(tab.Categories()))
			for i, g := range vm.Groups {
				assert.Equal(t, tab.Categories()[i], g.Category)
				assert.NotNil(t, g.Products)
				assert.Empty(t, g.Products)
			}
		})
	}
}

// TestDeriveMembership checks that a product is shown iff it passes the tab,
// search and retailer filters.
func TestDeriveMembership(t *testing.T) {
	store := mixedStore()
	searches := []string{"", "ULTA", "clean", "ruby", "serum", " ", "sun", "zero", "maybelline"}
	filters := append([]models.Retailer{models.RetailerAll}, models.Retailers()...)

	for _, tab := range models.Tabs {
		for _, search := range searches {
			for _, retailer := range filters {
				name := fmt.Sprintf("%s/%q/%s", tab, search, retailer)
				t.Run(name, func(t *testing.T) {
					q := models.Query{Tab: tab, Search: search, Retailer: retailer}
					vm := Derive(store, q)

					shown := map[models.ProductID]bool{}
					for _, g := range vm.Groups {
						for _, p := range g.Products {
							assert.Equal(t, g.Category, p.Category)
							shown[p.ID] = true
						}
					}

					expectedTotal := models.Money{}
					expectedCount := 0
					for _, p := range store {
						want := tab.Has(p.Category) && MatchesSearch(p, search) && MatchesRetailer(p, retailer)
						assert.Equal(t, want, shown[p.ID], "product %s", p.ID)
						if want {
							expectedTotal = expectedTotal.Add(models.MoneyFromFloat(p.Price))
							expectedCount++
						}
					}
					assert.Equal(t, expectedTotal.String(), vm.Total.String())
					assert.Equal(t, expectedCount, vm.MatchCount)

					breakdownCount := 0
					for _, r := range vm.Retailers {
						assert.Positive(t, r.Count)
						breakdownCount += r.Count
					}
					assert.Equal(t, expectedCount, breakdownCount)
				})
			}
		}
	}
}

func TestMatchesSearch(t *testing.T) {
	p := cerave()
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"CERAVE", true},
		{"foaming", true},
		{"cleanser", true},
		{"ceRa", true},
		{"ulta", false},
		{" cerave", false},
		{"cerave ", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.query), func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesSearch(p, tt.query))
		})
	}
}

func TestSummarizeOrdersByRetailerEnumeration(t *testing.T) {
	total, breakdown := Summarize(FilterTab(mixedStore(), models.TabSkincare))

	assert.Equal(t, "59.29", total.String())
	lines := make([]string, 0, len(breakdown))
	for _, b := range breakdown {
		lines = append(lines, b.String())
	}
	assert.Equal(t, []string{
		"Olive Young: $18.00 (1)",
		"Ulta: $21.49 (2)",
		"YesStyle: $19.80 (1)",
	}, lines)
}

func TestGroupPreservesStoreOrder(t *testing.T) {
	store := []models.Product{
		product("b", models.CategoryCleanser, "B", "Second", 1, models.RetailerOther),
		product("t", models.CategoryToner, "T", "Toner", 1, models.RetailerOther),
		product("a", models.CategoryCleanser, "A", "First", 1, models.RetailerOther),
	}
	groups := GroupByCategory(store, models.TabSkincare)
	require.Equal(t, models.CategoryCleanser, groups[0].Category)
	assert.Equal(t, "b", string(groups[0].Products[0].ID))
	assert.Equal(t, "a", string(groups[0].Products[1].ID))
	assert.Equal(t, models.CategoryToner, groups[1].Category)
	assert.Len(t, groups[1].Products, 1)
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/david/market-finder/internal/models"
)

func sampleMarkets() []models.Market {
	return []models.Market{
		{ID: "1", Name: "Elm St Market", City: "Boise", State: "ID", Address: "12 Elm St",
			Products: []string{"Vegetables", "Honey"}, SNAP: true, AcceptsCash: true, HasParking: true},
		{ID: "2", Name: "Harbor Market", City: "Portland", State: "OR",
			Products: []string{"Seafood"}, WIC: true, HasOrganic: true, CSAAvailable: true},
		{ID: "3", Name: "Capitol Greens", City: "Salem", State: "OR", Address: "1 Court St",
			Products: []string{"Vegetables"}, AcceptsCreditDebit: true, PetFriendly: true, HasFreshProduce: true},
		{ID: "4", Name: "Nameless"},
	}
}

func ids(markets []models.Market) []string {
	out := make([]string, 0, len(markets))
	for _, m := range markets {
		out = append(out, m.ID)
	}
	return out
}

func TestFilter_EmptyCriteriaIsIdentity(t *testing.T) {
	markets := sampleMarkets()
	got := Filter(markets, Criteria{})
	assert.Equal(t, markets, got)
}

func TestFilter_Search(t *testing.T) {
	cases := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3", "4"}},
		{"elm", []string{"1"}},
		{"PORTLAND", []string{"2"}},
		{"or", []string{"2", "3"}},
		{"court", []string{"3"}},
		{"zzz", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			got := Filter(sampleMarkets(), Criteria{SearchTerm: tc.term})
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilter_StateIsCaseInsensitive(t *testing.T) {
	got := Filter(sampleMarkets(), Criteria{State: "id"})
	assert.Equal(t, []string{"1"}, ids(got))

	got = Filter(sampleMarkets(), Criteria{States: []string{"OR", "WA"}})
	assert.Equal(t, []string{"2", "3"}, ids(got))

	got = Filter(sampleMarkets(), Criteria{States: []string{"or"}})
	assert.Empty(t, got, "multi-select states use exact membership")
}

func TestFilter_ProductsAnyOf(t *testing.T) {
	got := Filter(sampleMarkets(), Criteria{Products: []string{"Honey", "Seafood"}})
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestFilter_GroupsAreOrWithinAndAcross(t *testing.T) {
	c := Criteria{Payments: map[string]bool{"snap": true, "wic": true}}
	assert.Equal(t, []string{"1", "2"}, ids(Filter(sampleMarkets(), c)))

	c.Amenities = map[string]bool{"parking": true}
	assert.Equal(t, []string{"1"}, ids(Filter(sampleMarkets(), c)))

	c.State = "OR"
	assert.Empty(t, Filter(sampleMarkets(), c))
}

func TestFilter_FalseTogglesLeaveGroupInactive(t *testing.T) {
	c := Criteria{Payments: map[string]bool{"snap": false, "wic": false}}
	assert.Len(t, Filter(sampleMarkets(), c), 4)
}

func TestFilter_UnknownToggleActivatesGroup(t *testing.T) {
	c := Criteria{ProductTypes: map[string]bool{"has_seafood": true}}
	assert.Empty(t, Filter(sampleMarkets(), c))

	c.ProductTypes["has_organic"] = true
	assert.Equal(t, []string{"2"}, ids(Filter(sampleMarkets(), c)))
}

func TestFilter_ProductTypeCoversCategoriesAndProduction(t *testing.T) {
	c := Criteria{ProductTypes: map[string]bool{"has_fresh_produce": true, "has_organic": true}}
	assert.Equal(t, []string{"2", "3"}, ids(Filter(sampleMarkets(), c)))
}

func TestFilter_SalesChannels(t *testing.T) {
	c := Criteria{SalesChannels: map[string]bool{"csa": true}}
	assert.Equal(t, []string{"2"}, ids(Filter(sampleMarkets(), c)))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	markets := sampleMarkets()
	before := ids(markets)
	_ = Filter(markets, Criteria{State: "OR"})
	assert.Equal(t, before, ids(markets))
}

func TestToggleTablesHaveUniqueNames(t *testing.T) {
	for name, group := range map[string][]Toggle{
		"payment":      PaymentToggles,
		"product_type": ProductTypeToggles,
		"amenity":      AmenityToggles,
		"sales":        SalesChannelToggles,
	} {
		seen := map[string]bool{}
		for _, tg := range group {
			assert.False(t, seen[tg.Name], "%s: duplicate toggle %q", name, tg.Name)
			seen[tg.Name] = true
			assert.True(t, IsKnownToggle(group, tg.Name))
		}
	}
	assert.False(t, IsKnownToggle(PaymentToggles, "bitcoin"))
}

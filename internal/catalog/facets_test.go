package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/david/market-finder/internal/models"
)

func TestDistinctStates(t *testing.T) {
	assert.Equal(t, []string{"ID", "OR"}, DistinctStates(sampleMarkets()))
	assert.Equal(t, []string{}, DistinctStates(nil))

	mixed := []models.Market{{State: "or"}, {State: "OR"}}
	assert.Equal(t, []string{"OR", "or"}, DistinctStates(mixed))
}

func TestDistinctProducts(t *testing.T) {
	assert.Equal(t, []string{"Honey", "Seafood", "Vegetables"}, DistinctProducts(sampleMarkets()))
}

func TestAggregate_CrossFaceted(t *testing.T) {
	c := Criteria{State: "OR", Payments: map[string]bool{"wic": true}}
	got := Aggregate(sampleMarkets(), c)

	// States are counted without the state filter but with payments applied.
	if diff := cmp.Diff([]Aggregation{{Value: "OR", Count: 1}}, got.States); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}

	// Payments are counted without the payment filter but with state applied.
	want := []Aggregation{{Value: "credit", Count: 1}, {Value: "wic", Count: 1}}
	if diff := cmp.Diff(want, got.Payments); diff != "" {
		t.Fatalf("payments mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []Aggregation{{Value: "Seafood", Count: 1}}, got.Products)
	assert.Equal(t, []Aggregation{{Value: "csa", Count: 1}}, got.SalesChannels)
}

func TestAggregate_RankingAndDedup(t *testing.T) {
	markets := []models.Market{
		{State: "OR", Products: []string{"Eggs", "Eggs"}},
		{State: "OR", Products: []string{"Bread"}},
		{State: "ID", Products: []string{"Eggs"}},
	}
	got := Aggregate(markets, Criteria{})
	assert.Equal(t, []Aggregation{{"OR", 2}, {"ID", 1}}, got.States)
	assert.Equal(t, []Aggregation{{"Eggs", 2}, {"Bread", 1}}, got.Products)
	assert.Empty(t, got.Amenities)
}

func TestCriteriaExcluding(t *testing.T) {
	c := Criteria{State: "OR", States: []string{"OR"}, Products: []string{"x"}}
	ex := c.Excluding(DimState)
	assert.Empty(t, ex.State)
	assert.Nil(t, ex.States)
	assert.Equal(t, []string{"x"}, ex.Products)
	assert.Equal(t, "OR", c.State, "receiver criteria untouched")
}

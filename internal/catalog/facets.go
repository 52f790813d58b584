package catalog

import (
	"sort"

	"github.com/david/market-finder/internal/models"
)

// DistinctStates returns every state present in markets, sorted ascending.
// Comparison is case-sensitive.
func DistinctStates(markets []models.Market) []string {
	seen := map[string]struct{}{}
	for i := range markets {
		if s := markets[i].State; s != "" {
			seen[s] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// DistinctProducts returns the union of all product tags, sorted ascending.
func DistinctProducts(markets []models.Market) []string {
	seen := map[string]struct{}{}
	for i := range markets {
		for _, p := range markets[i].Products {
			if p != "" {
				seen[p] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Aggregation represents a single facet count.
type Aggregation struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// AggregationResult contains all facet counts for filter sidebars.
type AggregationResult struct {
	States        []Aggregation `json:"states"`
	Products      []Aggregation `json:"products"`
	ProductTypes  []Aggregation `json:"product_types"`
	Payments      []Aggregation `json:"payments"`
	Amenities     []Aggregation `json:"amenities"`
	SalesChannels []Aggregation `json:"sales_channels"`
}

// Dimension names used for cross-faceted exclusion.
const (
	DimState        = "state"
	DimProducts     = "products"
	DimProductTypes = "product_types"
	DimPayments     = "payments"
	DimAmenities    = "amenities"
	DimSalesChannel = "sales_channels"
)

// Excluding returns a copy of c with one dimension cleared. Both the single
// and the multi-select state filters belong to DimState.
func (c Criteria) Excluding(dim string) Criteria {
	switch dim {
	case DimState:
		c.State = ""
		c.States = nil
	case DimProducts:
		c.Products = nil
	case DimProductTypes:
		c.ProductTypes = nil
	case DimPayments:
		c.Payments = nil
	case DimAmenities:
		c.Amenities = nil
	case DimSalesChannel:
		c.SalesChannels = nil
	}
	return c
}

// Aggregate counts facet values over the markets matching c. Each dimension
// is counted with its own filter removed, so a sidebar keeps showing every
// option of the dimension currently being narrowed.
func Aggregate(markets []models.Market, c Criteria) AggregationResult {
	var res AggregationResult

	states := map[string]int{}
	for _, m := range Filter(markets, c.Excluding(DimState)) {
		if m.State != "" {
			states[m.State]++
		}
	}
	res.States = rankCounts(states)

	products := map[string]int{}
	for _, m := range Filter(markets, c.Excluding(DimProducts)) {
		for _, p := range uniqueNonEmpty(m.Products) {
			products[p]++
		}
	}
	res.Products = rankCounts(products)

	res.ProductTypes = countToggles(Filter(markets, c.Excluding(DimProductTypes)), ProductTypeToggles)
	res.Payments = countToggles(Filter(markets, c.Excluding(DimPayments)), PaymentToggles)
	res.Amenities = countToggles(Filter(markets, c.Excluding(DimAmenities)), AmenityToggles)
	res.SalesChannels = countToggles(Filter(markets, c.Excluding(DimSalesChannel)), SalesChannelToggles)

	return res
}

func countToggles(markets []models.Market, toggles []Toggle) []Aggregation {
	counts := map[string]int{}
	for i := range markets {
		for _, t := range toggles {
			if t.Has(&markets[i]) {
				counts[t.Name]++
			}
		}
	}
	return rankCounts(counts)
}

// rankCounts orders by count descending, then value ascending.
func rankCounts(counts map[string]int) []Aggregation {
	out := make([]Aggregation, 0, len(counts))
	for v, n := range counts {
		out = append(out, Aggregation{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

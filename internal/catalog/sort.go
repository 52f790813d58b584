package catalog

import (
	"sort"
	"strings"

	"github.com/david/market-finder/internal/models"
)

const (
	SortByName  = "name"
	SortByState = "state"
)

// IsSortKey reports whether key is a supported sort order. The empty key
// keeps source order.
func IsSortKey(key string) bool {
	return key == "" || key == SortByName || key == SortByState
}

// SortMarkets returns a stably sorted copy of markets. Unknown keys keep the
// input order.
func SortMarkets(markets []models.Market, key string) []models.Market {
	out := append([]models.Market{}, markets...)

	var field func(m *models.Market) string
	switch key {
	case SortByName:
		field = func(m *models.Market) string { return m.Name }
	case SortByState:
		field = func(m *models.Market) string { return m.State }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(field(&out[i])) < strings.ToLower(field(&out[j]))
	})
	return out
}

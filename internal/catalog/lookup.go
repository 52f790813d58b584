package catalog

import "github.com/david/market-finder/internal/models"

// GetByID returns the first market whose id equals id. Duplicate ids in the
// source are not detected; the earliest record wins.
func GetByID(markets []models.Market, id string) (models.Market, bool) {
	for i := range markets {
		if markets[i].ID == id {
			return markets[i], true
		}
	}
	return models.Market{}, false
}

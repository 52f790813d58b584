package catalog

import "github.com/david/market-finder/internal/models"

// Marker is the slim map projection of a located market.
type Marker struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	City  string  `json:"city,omitempty"`
	State string  `json:"state,omitempty"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Markers projects the located markets, keeping at most limit of them.
// It also returns how many located markets there were in total. A limit
// <= 0 keeps them all.
func Markers(markets []models.Market, limit int) ([]Marker, int) {
	out := []Marker{}
	total := 0
	for i := range markets {
		m := &markets[i]
		if m.Location == nil {
			continue
		}
		total++
		if limit > 0 && len(out) >= limit {
			continue
		}
		out = append(out, Marker{
			ID:    m.ID,
			Name:  m.Name,
			City:  m.City,
			State: m.State,
			Lat:   m.Location.Lat,
			Lon:   m.Location.Lon,
		})
	}
	return out, total
}

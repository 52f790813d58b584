package catalog

import (
	"strings"

	"github.com/david/market-finder/internal/models"
)

// Criteria is a compound market filter. Zero values impose no constraint.
// Dimensions are AND-ed; toggles inside one facet group are OR-ed.
type Criteria struct {
	SearchTerm string
	State      string   // single state, compared case-insensitively
	States     []string // multi-select, exact membership
	Products   []string // any-of against Market.Products

	ProductTypes  map[string]bool
	Payments      map[string]bool
	Amenities     map[string]bool
	SalesChannels map[string]bool
}

// Toggle binds a facet-group toggle name to the market field it reads.
type Toggle struct {
	Name string
	Has  func(m *models.Market) bool
}

var PaymentToggles = []Toggle{
	{"wic", func(m *models.Market) bool { return m.WIC }},
	{"snap", func(m *models.Market) bool { return m.SNAP }},
	{"sfmnp", func(m *models.Market) bool { return m.SFMNP }},
	{"fmnp", func(m *models.Market) bool { return m.FMNP }},
	{"cash", func(m *models.Market) bool { return m.AcceptsCash }},
	{"credit", func(m *models.Market) bool { return m.AcceptsCreditDebit }},
	{"checks", func(m *models.Market) bool { return m.AcceptsChecks }},
}

var ProductTypeToggles = []Toggle{
	{"has_fresh_produce", func(m *models.Market) bool { return m.HasFreshProduce }},
	{"has_meat", func(m *models.Market) bool { return m.HasMeat }},
	{"has_dairy", func(m *models.Market) bool { return m.HasDairy }},
	{"has_eggs", func(m *models.Market) bool { return m.HasEggs }},
	{"has_herbs", func(m *models.Market) bool { return m.HasHerbs }},
	{"has_crafts", func(m *models.Market) bool { return m.HasCrafts }},
	{"has_prepared_food", func(m *models.Market) bool { return m.HasPreparedFood }},
	{"has_baked_goods", func(m *models.Market) bool { return m.HasBakedGoods }},
	{"has_flowers", func(m *models.Market) bool { return m.HasFlowers }},
	{"has_honey", func(m *models.Market) bool { return m.HasHoney }},
	{"has_jams", func(m *models.Market) bool { return m.HasJams }},
	{"has_wine", func(m *models.Market) bool { return m.HasWine }},
	{"has_organic", func(m *models.Market) bool { return m.HasOrganic }},
	{"has_naturally_grown", func(m *models.Market) bool { return m.HasNaturallyGrown }},
	{"has_chemical_free", func(m *models.Market) bool { return m.HasChemicalFree }},
	{"has_grass_fed", func(m *models.Market) bool { return m.HasGrassFed }},
	{"has_free_range", func(m *models.Market) bool { return m.HasFreeRange }},
	{"has_hormone_free", func(m *models.Market) bool { return m.HasHormoneFree }},
	{"has_gmo_free", func(m *models.Market) bool { return m.HasGMOFree }},
}

var AmenityToggles = []Toggle{
	{"parking", func(m *models.Market) bool { return m.HasParking }},
	{"restrooms", func(m *models.Market) bool { return m.HasRestrooms }},
	{"picnic_area", func(m *models.Market) bool { return m.HasPicnicArea }},
	{"wheelchair_accessible", func(m *models.Market) bool { return m.WheelchairAccessible }},
	{"pet_friendly", func(m *models.Market) bool { return m.PetFriendly }},
}

var SalesChannelToggles = []Toggle{
	{"online_ordering", func(m *models.Market) bool { return m.OnlineOrderingAvailable }},
	{"phone_ordering", func(m *models.Market) bool { return m.PhoneOrdering }},
	{"csa", func(m *models.Market) bool { return m.CSAAvailable }},
	{"delivery", func(m *models.Market) bool { return m.DeliveryAvailable }},
}

// Filter returns the markets matching c, preserving input order. The input
// slice is never modified.
func Filter(markets []models.Market, c Criteria) []models.Market {
	out := make([]models.Market, 0, len(markets))
	for i := range markets {
		if c.Matches(&markets[i]) {
			out = append(out, markets[i])
		}
	}
	return out
}

// Matches reports whether m passes every active dimension of c.
func (c Criteria) Matches(m *models.Market) bool {
	return c.matchesSearch(m) &&
		c.matchesState(m) &&
		c.matchesStates(m) &&
		c.matchesProducts(m) &&
		groupMatches(c.ProductTypes, ProductTypeToggles, m) &&
		groupMatches(c.Payments, PaymentToggles, m) &&
		groupMatches(c.Amenities, AmenityToggles, m) &&
		groupMatches(c.SalesChannels, SalesChannelToggles, m)
}

func (c Criteria) matchesSearch(m *models.Market) bool {
	if c.SearchTerm == "" {
		return true
	}
	term := strings.ToLower(c.SearchTerm)
	for _, field := range []string{m.Name, m.City, m.State, m.Address} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (c Criteria) matchesState(m *models.Market) bool {
	if c.State == "" {
		return true
	}
	return m.State != "" && strings.EqualFold(m.State, c.State)
}

func (c Criteria) matchesStates(m *models.Market) bool {
	if len(c.States) == 0 {
		return true
	}
	if m.State == "" {
		return false
	}
	for _, s := range c.States {
		if s == m.State {
			return true
		}
	}
	return false
}

func (c Criteria) matchesProducts(m *models.Market) bool {
	if len(c.Products) == 0 {
		return true
	}
	for _, want := range c.Products {
		for _, have := range m.Products {
			if want == have {
				return true
			}
		}
	}
	return false
}

// groupActive reports whether any toggle in the group is switched on.
func groupActive(selected map[string]bool) bool {
	for _, on := range selected {
		if on {
			return true
		}
	}
	return false
}

// groupMatches applies OR semantics within one facet group. Selected names
// with no matching toggle never match but still activate the group.
func groupMatches(selected map[string]bool, toggles []Toggle, m *models.Market) bool {
	if !groupActive(selected) {
		return true
	}
	for _, t := range toggles {
		if selected[t.Name] && t.Has(m) {
			return true
		}
	}
	return false
}

// IsKnownToggle reports whether name belongs to the given group.
func IsKnownToggle(toggles []Toggle, name string) bool {
	for _, t := range toggles {
		if t.Name == name {
			return true
		}
	}
	return false
}

package ingest

import "strings"

// Facet names derived from free text. They match the JSON field names of
// models.Market.
const (
	FacetAcceptsCash        = "accepts_cash"
	FacetAcceptsCreditDebit = "accepts_credit_debit"
	FacetAcceptsChecks      = "accepts_checks"

	FacetOrganic        = "has_organic"
	FacetNaturallyGrown = "has_naturally_grown"
	FacetChemicalFree   = "has_chemical_free"
	FacetGrassFed       = "has_grass_fed"
	FacetFreeRange      = "has_free_range"
	FacetHormoneFree    = "has_hormone_free"
	FacetGMOFree        = "has_gmo_free"

	FacetParking              = "has_parking"
	FacetRestrooms            = "has_restrooms"
	FacetPicnicArea           = "has_picnic_area"
	FacetWheelchairAccessible = "wheelchair_accessible"
	FacetPetFriendly          = "pet_friendly"
)

// FacetRule maps one derived facet to the lowercase substrings that assert it.
type FacetRule struct {
	Facet    string
	Triggers []string
}

// PaymentRules are matched against each payment method string.
var PaymentRules = []FacetRule{
	{FacetAcceptsCash, []string{"cash"}},
	{FacetAcceptsCreditDebit, []string{"credit", "debit", "card"}},
	{FacetAcceptsChecks, []string{"check"}},
}

// ProductionRules are matched against each production method string.
var ProductionRules = []FacetRule{
	{FacetOrganic, []string{"organic"}},
	{FacetNaturallyGrown, []string{"naturally grown", "natural growing"}},
	{FacetChemicalFree, []string{"chemical free", "no chemicals"}},
	{FacetGrassFed, []string{"grass fed", "grass-fed"}},
	{FacetFreeRange, []string{"free range", "free-range"}},
	{FacetHormoneFree, []string{"hormone free", "no hormones"}},
	{FacetGMOFree, []string{"gmo free", "non-gmo", "no gmo"}},
}

// AmenityRules are matched against the joined amenity text. A rule only
// ever turns a facet on; the explicit source flag is OR-ed in separately.
var AmenityRules = []FacetRule{
	{FacetParking, []string{"parking"}},
	{FacetRestrooms, []string{"restroom", "bathroom", "facilities"}},
	{FacetPicnicArea, []string{"picnic", "seating"}},
	{FacetWheelchairAccessible, []string{"wheelchair", "accessible", "ada"}},
	{FacetPetFriendly, []string{"pet friendly", "dog friendly", "pets welcome"}},
}

// matchesAny reports whether any text contains any trigger, ignoring case.
func matchesAny(texts []string, triggers []string) bool {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, trigger := range triggers {
			if strings.Contains(lower, trigger) {
				return true
			}
		}
	}
	return false
}

// deriveFacets evaluates every rule against texts. Facets not asserted by
// any text are present in the result as false.
func deriveFacets(rules []FacetRule, texts []string) map[string]bool {
	out := make(map[string]bool, len(rules))
	for _, rule := range rules {
		out[rule.Facet] = matchesAny(texts, rule.Triggers)
	}
	return out
}

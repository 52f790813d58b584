package ingest

import (
	"strconv"
	"strings"

	"github.com/david/market-finder/internal/models"
)

// Normalize converts a parsed snapshot into canonical records. It never
// fails: absent groups become absent, false or empty fields.
func Normalize(raw []RawMarket) []models.Market {
	out := make([]models.Market, 0, len(raw))
	for i, r := range raw {
		out = append(out, FromRaw(r, i))
	}
	return out
}

// FromRaw converts one RawMarket at position index (0-based) into a
// canonical Market.
func FromRaw(raw RawMarket, index int) models.Market {
	m := models.Market{
		ID:          marketID(raw.ID, index),
		Name:        string(raw.Name),
		LastUpdated: string(raw.LastUpdated),
	}

	applyLocation(&m, raw.Location)
	applyOrganization(&m, raw.Organization)
	applyContact(&m, raw.Contact)
	applyOperations(&m, raw.Operations)
	applyProducts(&m, raw.Products)
	applyPayment(&m, raw.Payment)
	applySalesChannels(&m, raw.SalesChannels)
	applyAmenities(&m, raw.Amenities, raw.Location)

	return m
}

// marketID falls back to the 1-based position when the source has no id.
func marketID(id *RawID, index int) string {
	if id != nil && *id != "" {
		return string(*id)
	}
	return strconv.Itoa(index + 1)
}

func applyLocation(m *models.Market, loc *RawLocation) {
	if loc == nil {
		return
	}
	m.Address = string(loc.Address)
	m.City = string(loc.City)
	m.State = string(loc.State)
	m.ZipCode = string(loc.ZipCode)
	m.LocationDescription = cleanDescription(string(loc.Description))
	m.SiteType = string(loc.SiteType)
	m.IndoorOutdoor = string(loc.IndoorOutdoor)

	if c := loc.Coordinates; c != nil && c.Latitude.Valid && c.Longitude.Valid {
		m.Location = &models.Location{Lat: c.Latitude.Value, Lon: c.Longitude.Value}
	}
}

func applyOrganization(m *models.Market, org *RawOrganization) {
	m.OrganizationTypes = []string{}
	if org == nil {
		return
	}
	m.OrganizationTypes = listOrEmpty(org.Types)
	m.OrganizationDescription = cleanDescription(string(org.Description))
}

func applyContact(m *models.Market, c *RawContact) {
	if c == nil {
		c = &RawContact{}
	}
	m.PhoneNumbers = listOrEmpty(c.PhoneNumbers)
	m.Emails = listOrEmpty(c.Emails)
	m.Websites = listOrEmpty(c.Websites)
	m.SocialMedia = listOrEmpty(c.SocialMedia)
}

func applyOperations(m *models.Market, ops *RawOperations) {
	m.Days = []string{}
	if ops == nil {
		return
	}
	m.Season = string(ops.Season)
	m.Days = listOrEmpty(ops.Days)
	if ops.VendorCount.Valid {
		n := ops.VendorCount.Value
		m.VendorCount = &n
	}
}

func applyProducts(m *models.Market, p *RawProducts) {
	if p == nil {
		p = &RawProducts{}
	}
	m.Products = listOrEmpty(p.Items)
	m.ProductionMethods = listOrEmpty(p.ProductionMethods)

	facets := deriveFacets(ProductionRules, p.ProductionMethods)
	m.HasOrganic = facets[FacetOrganic]
	m.HasNaturallyGrown = facets[FacetNaturallyGrown]
	m.HasChemicalFree = facets[FacetChemicalFree]
	m.HasGrassFed = facets[FacetGrassFed]
	m.HasFreeRange = facets[FacetFreeRange]
	m.HasHormoneFree = facets[FacetHormoneFree]
	m.HasGMOFree = facets[FacetGMOFree]

	cat := p.Categories
	if cat == nil {
		cat = &RawCategories{}
	}
	m.HasFreshProduce = flagOr(cat.FreshProduce, defaultFlag)
	m.HasMeat = flagOr(cat.Meat, defaultFlag)
	m.HasDairy = flagOr(cat.Dairy, defaultFlag)
	m.HasEggs = flagOr(cat.Eggs, defaultFlag)
	m.HasHerbs = flagOr(cat.Herbs, defaultFlag)
	m.HasCrafts = flagOr(cat.Crafts, defaultFlag)
	m.HasPreparedFood = flagOr(cat.PreparedFood, defaultFlag)
	m.HasBakedGoods = flagOr(cat.BakedGoods, defaultFlag)
	m.HasFlowers = flagOr(cat.Flowers, defaultFlag)
	m.HasHoney = flagOr(cat.Honey, defaultFlag)
	m.HasJams = flagOr(cat.Jams, defaultFlag)
	m.HasWine = flagOr(cat.Wine, defaultFlag)
}

func applyPayment(m *models.Market, p *RawPayment) {
	if p == nil {
		p = &RawPayment{}
	}
	m.PaymentMethods = listOrEmpty(p.Methods)

	facets := deriveFacets(PaymentRules, p.Methods)
	m.AcceptsCash = facets[FacetAcceptsCash]
	m.AcceptsCreditDebit = facets[FacetAcceptsCreditDebit]
	m.AcceptsChecks = facets[FacetAcceptsChecks]

	fa := p.FoodAssistance
	if fa == nil {
		fa = &RawFoodAssistance{}
	}
	m.WIC = flagOr(fa.WIC, defaultFlag)
	m.SFMNP = flagOr(fa.SFMNP, defaultFlag)
	m.FMNP = flagOr(fa.FMNP, defaultFlag)
	m.SNAP = flagOr(fa.SNAP, defaultFlag)
	if fa.SNAPOption != nil {
		opt := string(*fa.SNAPOption)
		m.SNAPOption = &opt
	}
}

func applySalesChannels(m *models.Market, sc *RawSalesChannels) {
	if sc == nil {
		sc = &RawSalesChannels{}
	}
	m.OnlineOrderingLinks = []string{}
	if oo := sc.OnlineOrdering; oo != nil {
		m.OnlineOrderingAvailable = flagOr(oo.Available, defaultFlag)
		m.OnlineOrderingLinks = listOrEmpty(oo.Links)
	}
	m.PhoneOrdering = flagOr(sc.PhoneOrdering, defaultFlag)
	if csa := sc.CSA; csa != nil {
		m.CSAAvailable = flagOr(csa.Available, defaultFlag)
		m.CSADescription = cleanDescription(string(csa.Description))
	}
	if d := sc.Delivery; d != nil {
		m.DeliveryAvailable = flagOr(d.Available, defaultFlag)
		m.DeliveryMethods = string(d.Methods)
	}
}

// applyAmenities ORs the explicit flags with the keyword heuristic over the
// amenity description, the location description and each feature.
func applyAmenities(m *models.Market, a *RawAmenities, loc *RawLocation) {
	if a == nil {
		a = &RawAmenities{}
	}
	var locDesc string
	if loc != nil {
		locDesc = string(loc.Description)
	}
	parts := nonEmpty(append([]string{string(a.Description), locDesc}, a.Features...)...)
	blob := strings.ToLower(strings.Join(parts, " "))

	facets := deriveFacets(AmenityRules, []string{blob})
	m.HasParking = flagOr(a.Parking, defaultFlag) || facets[FacetParking]
	m.HasRestrooms = flagOr(a.Restrooms, defaultFlag) || facets[FacetRestrooms]
	m.HasPicnicArea = flagOr(a.PicnicArea, defaultFlag) || facets[FacetPicnicArea]
	m.WheelchairAccessible = flagOr(a.WheelchairAccessible, defaultFlag) || facets[FacetWheelchairAccessible]
	m.PetFriendly = flagOr(a.PetFriendly, defaultFlag) || facets[FacetPetFriendly]
}

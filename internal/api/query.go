package api

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/david/market-finder/internal/catalog"
	"github.com/david/market-finder/internal/store"
)

// Prefixes of the boolean toggle parameters sent by the markets page,
// e.g. payment_snap=true or production_naturallyGrown=true.
const (
	prefixPayment    = "payment_"
	prefixProduction = "production_"
	prefixAmenity    = "amenity_"
	prefixSales      = "sales_"
)

// toggleAliases maps client field names onto toggle names.
var toggleAliases = map[string]string{
	"online_ordering_available": "online_ordering",
	"csa_available":             "csa",
	"delivery_available":        "delivery",
	"has_parking":               "parking",
	"has_restrooms":             "restrooms",
	"has_picnic_area":           "picnic_area",
}

// splitCSV splits a comma-separated query parameter into trimmed non-empty strings.
func splitCSV(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// snakeCase turns "naturallyGrown" into "naturally_grown". Snake-case input
// is returned lowercased.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toggleName(raw string) string {
	name := snakeCase(raw)
	if alias, ok := toggleAliases[name]; ok {
		return alias
	}
	return name
}

func isTruthy(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func setToggle(group *map[string]bool, name string) {
	if *group == nil {
		*group = map[string]bool{}
	}
	(*group)[name] = true
}

// parseCriteria reads every filter dimension from the query string.
func (s *Server) parseCriteria(c echo.Context) catalog.Criteria {
	params := c.QueryParams()
	crit := catalog.Criteria{
		SearchTerm: strings.TrimSpace(c.QueryParam("search")),
		State:      strings.TrimSpace(c.QueryParam("state")),
		States:     splitCSV(c.QueryParam("states")),
	}

	// products[] is repeated verbatim; products is the CSV shorthand.
	for _, v := range params["products[]"] {
		if v != "" {
			crit.Products = append(crit.Products, v)
		}
	}
	for _, v := range params["products"] {
		crit.Products = append(crit.Products, splitCSV(v)...)
	}

	for _, name := range splitCSV(c.QueryParam("product_type")) {
		setToggle(&crit.ProductTypes, snakeCase(name))
	}

	for key, values := range params {
		if len(values) == 0 || !isTruthy(values[len(values)-1]) {
			continue
		}
		switch {
		case strings.HasPrefix(key, prefixPayment):
			setToggle(&crit.Payments, toggleName(strings.TrimPrefix(key, prefixPayment)))
		case strings.HasPrefix(key, prefixProduction):
			name := toggleName(strings.TrimPrefix(key, prefixProduction))
			if !strings.HasPrefix(name, "has_") {
				name = "has_" + name
			}
			setToggle(&crit.ProductTypes, name)
		case strings.HasPrefix(key, prefixAmenity):
			setToggle(&crit.Amenities, toggleName(strings.TrimPrefix(key, prefixAmenity)))
		case strings.HasPrefix(key, prefixSales):
			setToggle(&crit.SalesChannels, toggleName(strings.TrimPrefix(key, prefixSales)))
		}
	}
	s.logUnknownToggles(c, crit)
	return crit
}

// logUnknownToggles reports selected toggles that no market can carry. They
// stay in the criteria and make their group match nothing.
func (s *Server) logUnknownToggles(c echo.Context, crit catalog.Criteria) {
	groups := []struct {
		name     string
		selected map[string]bool
		toggles  []catalog.Toggle
	}{
		{"payment", crit.Payments, catalog.PaymentToggles},
		{"product_type", crit.ProductTypes, catalog.ProductTypeToggles},
		{"amenity", crit.Amenities, catalog.AmenityToggles},
		{"sales_channel", crit.SalesChannels, catalog.SalesChannelToggles},
	}
	for _, g := range groups {
		for name, on := range g.selected {
			if on && !catalog.IsKnownToggle(g.toggles, name) {
				s.Logger.Debug("unknown filter toggle",
					zap.String("group", g.name),
					zap.String("toggle", name),
					s.requestID(c),
				)
			}
		}
	}
}

// parseListParams applies paging defaults. A missing or unparseable limit
// uses the default; an explicit limit <= 0 means every match; larger
// limits are capped.
func (s *Server) parseListParams(c echo.Context) store.ListParams {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}

	limit := s.cfg.DefaultLimit
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		limit = l
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	sortKey := strings.ToLower(c.QueryParam("sort"))
	if !catalog.IsSortKey(sortKey) {
		sortKey = ""
	}

	return store.ListParams{
		Criteria: s.parseCriteria(c),
		Sort:     sortKey,
		Page:     page,
		Limit:    limit,
	}
}

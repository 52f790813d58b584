package models

import "strings"

// FullAddress joins the address parts that are present with ", ".
func (m Market) FullAddress() string {
	var parts []string
	for _, p := range []string{m.Address, m.City, m.State, m.ZipCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Hours prefers the season text and falls back to the market days.
func (m Market) Hours() string {
	if m.Season != "" {
		return m.Season
	}
	if len(m.Days) > 0 {
		return strings.Join(m.Days, ", ")
	}
	return ""
}

// ProductList never returns nil.
func (m Market) ProductList() []string {
	if m.Products == nil {
		return []string{}
	}
	return m.Products
}

// PaymentLabels lists the raw payment methods followed by assistance
// programs and the derived basic payment types.
func (m Market) PaymentLabels() []string {
	methods := append([]string{}, m.PaymentMethods...)
	return append(methods, labelsFor([]labeledFlag{
		{m.WIC, "WIC"},
		{m.SNAP, "SNAP"},
		{m.FMNP, "FMNP"},
		{m.SFMNP, "SFMNP"},
		{m.AcceptsCash, "Cash"},
		{m.AcceptsCreditDebit, "Credit/Debit"},
		{m.AcceptsChecks, "Checks"},
	})...)
}

func (m Market) ProductionLabels() []string {
	return labelsFor([]labeledFlag{
		{m.HasOrganic, "Organic"},
		{m.HasNaturallyGrown, "Naturally Grown"},
		{m.HasChemicalFree, "Chemical Free"},
		{m.HasGrassFed, "Grass Fed"},
		{m.HasFreeRange, "Free Range"},
		{m.HasHormoneFree, "Hormone Free"},
		{m.HasGMOFree, "GMO Free"},
	})
}

func (m Market) AmenityLabels() []string {
	return labelsFor([]labeledFlag{
		{m.HasParking, "Parking"},
		{m.HasRestrooms, "Restrooms"},
		{m.HasPicnicArea, "Picnic Area"},
		{m.WheelchairAccessible, "Wheelchair Accessible"},
		{m.PetFriendly, "Pet Friendly"},
	})
}

func (m Market) SalesChannelLabels() []string {
	return labelsFor([]labeledFlag{
		{m.OnlineOrderingAvailable, "Online Ordering"},
		{m.PhoneOrdering, "Phone Ordering"},
		{m.CSAAvailable, "CSA Available"},
		{m.DeliveryAvailable, "Delivery Available"},
	})
}

type labeledFlag struct {
	on    bool
	label string
}

func labelsFor(flags []labeledFlag) []string {
	out := []string{}
	for _, f := range flags {
		if f.on {
			out = append(out, f.label)
		}
	}
	return out
}

package models

// Location is a market's map position. It is only set when the source
// record carries both coordinates.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Market is the flat, canonical record served by every read operation.
// Derived facets are computed once during normalization and never
// recomputed afterwards.
type Market struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LastUpdated string    `json:"last_updated,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	ZipCode     string    `json:"zip_code,omitempty"`
	Location    *Location `json:"location,omitempty"`

	LocationDescription     string   `json:"location_description,omitempty"`
	SiteType                string   `json:"site_type,omitempty"`
	IndoorOutdoor           string   `json:"indoor_outdoor,omitempty"`
	OrganizationTypes       []string `json:"organization_types"`
	OrganizationDescription string   `json:"organization_description,omitempty"`

	PhoneNumbers []string `json:"phone_numbers"`
	Emails       []string `json:"emails"`
	Websites     []string `json:"websites"`
	SocialMedia  []string `json:"social_media"`

	Season      string   `json:"season,omitempty"`
	Days        []string `json:"days"`
	VendorCount *float64 `json:"vendor_count,omitempty"`

	Products          []string `json:"products"`
	ProductionMethods []string `json:"production_methods"`
	PaymentMethods    []string `json:"payment_methods"`

	WIC        bool    `json:"wic"`
	SFMNP      bool    `json:"sfmnp"`
	FMNP       bool    `json:"fmnp"`
	SNAP       bool    `json:"snap"`
	SNAPOption *string `json:"snap_option,omitempty"`

	OnlineOrderingAvailable bool     `json:"online_ordering_available"`
	OnlineOrderingLinks     []string `json:"online_ordering_links"`
	PhoneOrdering           bool     `json:"phone_ordering"`
	CSAAvailable            bool     `json:"csa_available"`
	CSADescription          string   `json:"csa_description,omitempty"`
	DeliveryAvailable       bool     `json:"delivery_available"`
	DeliveryMethods         string   `json:"delivery_methods,omitempty"`

	AcceptsCash        bool `json:"accepts_cash"`
	AcceptsCreditDebit bool `json:"accepts_credit_debit"`
	AcceptsChecks      bool `json:"accepts_checks"`

	HasOrganic        bool `json:"has_organic"`
	HasNaturallyGrown bool `json:"has_naturally_grown"`
	HasChemicalFree   bool `json:"has_chemical_free"`
	HasGrassFed       bool `json:"has_grass_fed"`
	HasFreeRange      bool `json:"has_free_range"`
	HasHormoneFree    bool `json:"has_hormone_free"`
	HasGMOFree        bool `json:"has_gmo_free"`

	HasFreshProduce bool `json:"has_fresh_produce"`
	HasMeat         bool `json:"has_meat"`
	HasDairy        bool `json:"has_dairy"`
	HasEggs         bool `json:"has_eggs"`
	HasHerbs        bool `json:"has_herbs"`
	HasCrafts       bool `json:"has_crafts"`
	HasPreparedFood bool `json:"has_prepared_food"`
	HasBakedGoods   bool `json:"has_baked_goods"`
	HasFlowers      bool `json:"has_flowers"`
	HasHoney        bool `json:"has_honey"`
	HasJams         bool `json:"has_jams"`
	HasWine         bool `json:"has_wine"`

	HasParking           bool `json:"has_parking"`
	HasRestrooms         bool `json:"has_restrooms"`
	HasPicnicArea        bool `json:"has_picnic_area"`
	WheelchairAccessible bool `json:"wheelchair_accessible"`
	PetFriendly          bool `json:"pet_friendly"`
}

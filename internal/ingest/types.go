package ingest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawMarket is the untrusted, nested record as stored in the snapshot file.
// Every group is optional; a nil group yields absent or empty leaf fields.
type RawMarket struct {
	ID            *RawID            `json:"id"`
	Name          RawText           `json:"name"`
	LastUpdated   RawText           `json:"last_updated"`
	Location      *RawLocation      `json:"location"`
	Organization  *RawOrganization  `json:"organization"`
	Contact       *RawContact       `json:"contact"`
	Operations    *RawOperations    `json:"operations"`
	Products      *RawProducts      `json:"products"`
	Payment       *RawPayment       `json:"payment"`
	SalesChannels *RawSalesChannels `json:"sales_channels"`
	Amenities     *RawAmenities     `json:"amenities"`
}

type RawLocation struct {
	Address       RawText         `json:"address"`
	City          RawText         `json:"city"`
	State         RawText         `json:"state"`
	ZipCode       RawText         `json:"zip_code"`
	Coordinates   *RawCoordinates `json:"coordinates"`
	Description   RawText         `json:"description"`
	SiteType      RawText         `json:"site_type"`
	IndoorOutdoor RawText         `json:"indoor_outdoor"`
}

// RawCoordinates keeps both values optional; a location is only derived
// when both are valid numbers.
type RawCoordinates struct {
	Latitude  RawNumber `json:"latitude"`
	Longitude RawNumber `json:"longitude"`
}

type RawOrganization struct {
	Types       StringList `json:"types"`
	Description RawText    `json:"description"`
}

type RawContact struct {
	PhoneNumbers StringList `json:"phone_numbers"`
	Emails       StringList `json:"emails"`
	Websites     StringList `json:"websites"`
	SocialMedia  StringList `json:"social_media"`
}

type RawOperations struct {
	Season      RawText    `json:"season"`
	Days        StringList `json:"days"`
	VendorCount RawNumber  `json:"vendor_count"`
}

type RawProducts struct {
	Items             StringList     `json:"items"`
	ProductionMethods StringList     `json:"production_methods"`
	Categories        *RawCategories `json:"categories"`
}

type RawCategories struct {
	FreshProduce RawFlag `json:"fresh_produce"`
	Meat         RawFlag `json:"meat"`
	Dairy        RawFlag `json:"dairy"`
	Eggs         RawFlag `json:"eggs"`
	Herbs        RawFlag `json:"herbs"`
	Crafts       RawFlag `json:"crafts"`
	PreparedFood RawFlag `json:"prepared_food"`
	BakedGoods   RawFlag `json:"baked_goods"`
	Flowers      RawFlag `json:"flowers"`
	Honey        RawFlag `json:"honey"`
	Jams         RawFlag `json:"jams"`
	Wine         RawFlag `json:"wine"`
}

type RawPayment struct {
	Methods        StringList         `json:"methods"`
	FoodAssistance *RawFoodAssistance `json:"food_assistance"`
}

type RawFoodAssistance struct {
	WIC        RawFlag  `json:"wic"`
	SFMNP      RawFlag  `json:"sfmnp"`
	FMNP       RawFlag  `json:"fmnp"`
	SNAP       RawFlag  `json:"snap"`
	SNAPOption *RawText `json:"snap_option"`
}

type RawSalesChannels struct {
	OnlineOrdering *RawOnlineOrdering `json:"online_ordering"`
	PhoneOrdering  RawFlag            `json:"phone_ordering"`
	CSA            *RawCSA            `json:"csa"`
	Delivery       *RawDelivery       `json:"delivery"`
}

type RawOnlineOrdering struct {
	Available RawFlag    `json:"available"`
	Links     StringList `json:"links"`
}

type RawCSA struct {
	Available   RawFlag `json:"available"`
	Description RawText `json:"description"`
}

type RawDelivery struct {
	Available RawFlag `json:"available"`
	Methods   RawText `json:"methods"`
}

type RawAmenities struct {
	Description          RawText    `json:"description"`
	Features             StringList `json:"features"`
	Parking              RawFlag    `json:"parking"`
	Restrooms            RawFlag    `json:"restrooms"`
	PicnicArea           RawFlag    `json:"picnic_area"`
	WheelchairAccessible RawFlag    `json:"wheelchair_accessible"`
	PetFriendly          RawFlag    `json:"pet_friendly"`
}

// Scalar leaves are decoded leniently: a syntactically valid record never
// fails on a field of an unexpected JSON type. Mismatched values are
// stringified where that is meaningful and dropped otherwise.

// scalarText renders a JSON scalar as text. ok is false for null, objects
// and arrays.
func scalarText(data []byte) (s string, ok bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", false
	}
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false
		}
		return s, true
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	case 'n', '{', '[':
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", false
	}
	return formatNumber(n), true
}

func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}

// RawText accepts a string, number, bool or null.
type RawText string

func (t *RawText) UnmarshalJSON(data []byte) error {
	s, _ := scalarText(data)
	*t = RawText(s)
	return nil
}

// RawID accepts a JSON string, number or bool. Anything else leaves the id
// empty and the record falls back to its position.
type RawID string

func (id *RawID) UnmarshalJSON(data []byte) error {
	s, _ := scalarText(data)
	*id = RawID(s)
	return nil
}

// RawNumber accepts a JSON number or a numeric string. Valid is false when
// the value is absent, null or not a number.
type RawNumber struct {
	Value float64
	Valid bool
}

func (n *RawNumber) UnmarshalJSON(data []byte) error {
	*n = RawNumber{}
	data = bytes.TrimSpace(data)
	var text string
	switch {
	case len(data) == 0:
		return nil
	case data[0] == '"':
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		text = string(data)
	default:
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = RawNumber{Value: f, Valid: true}
	return nil
}

// RawFlag accepts a JSON bool. Any other value reads as unset.
type RawFlag struct {
	Value bool
	Set   bool
}

func (f *RawFlag) UnmarshalJSON(data []byte) error {
	*f = RawFlag{}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = RawFlag{Value: b, Set: true}
	}
	return nil
}

// StringList accepts an array, a single scalar or null. Scalars are
// stringified; nulls, objects and arrays inside the list are skipped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = nil
	if len(data) == 0 {
		return nil
	}
	if data[0] != '[' {
		if s, ok := scalarText(data); ok {
			*l = StringList{s}
		}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	for _, item := range items {
		if s, ok := scalarText(item); ok {
			*l = append(*l, s)
		}
	}
	return nil
}

// decodeGroup decodes a nested group when the value is a JSON object and
// leaves it zero otherwise.
func decodeGroup[T any](data []byte, dst *T) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*dst = v
	return nil
}

func (g *RawLocation) UnmarshalJSON(data []byte) error {
	type plain RawLocation
	return decodeGroup(data, (*plain)(g))
}

func (g *RawCoordinates) UnmarshalJSON(data []byte) error {
	type plain RawCoordinates
	return decodeGroup(data, (*plain)(g))
}

func (g *RawOrganization) UnmarshalJSON(data []byte) error {
	type plain RawOrganization
	return decodeGroup(data, (*plain)(g))
}

func (g *RawContact) UnmarshalJSON(data []byte) error {
	type plain RawContact
	return decodeGroup(data, (*plain)(g))
}

func (g *RawOperations) UnmarshalJSON(data []byte) error {
	type plain RawOperations
	return decodeGroup(data, (*plain)(g))
}

func (g *RawProducts) UnmarshalJSON(data []byte) error {
	type plain RawProducts
	return decodeGroup(data, (*plain)(g))
}

func (g *RawCategories) UnmarshalJSON(data []byte) error {
	type plain RawCategories
	return decodeGroup(data, (*plain)(g))
}

func (g *RawPayment) UnmarshalJSON(data []byte) error {
	type plain RawPayment
	return decodeGroup(data, (*plain)(g))
}

func (g *RawFoodAssistance) UnmarshalJSON(data []byte) error {
	type plain RawFoodAssistance
	return decodeGroup(data, (*plain)(g))
}

func (g *RawSalesChannels) UnmarshalJSON(data []byte) error {
	type plain RawSalesChannels
	return decodeGroup(data, (*plain)(g))
}

func (g *RawOnlineOrdering) UnmarshalJSON(data []byte) error {
	type plain RawOnlineOrdering
	return decodeGroup(data, (*plain)(g))
}

func (g *RawCSA) UnmarshalJSON(data []byte) error {
	type plain RawCSA
	return decodeGroup(data, (*plain)(g))
}

func (g *RawDelivery) UnmarshalJSON(data []byte) error {
	type plain RawDelivery
	return decodeGroup(data, (*plain)(g))
}

func (g *RawAmenities) UnmarshalJSON(data []byte) error {
	type plain RawAmenities
	return decodeGroup(data, (*plain)(g))
}

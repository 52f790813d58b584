package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRaw_Failures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"empty", "", ErrEmptySource},
		{"whitespace only", "  \n\t ", ErrEmptySource},
		{"not json", "{name: broken", ErrMalformedSource},
		{"single object", `{"name":"Elm St Market"}`, ErrMalformedSource},
		{"scalar", `42`, ErrMalformedSource},
		{"null", `null`, ErrMalformedSource},
		{"truncated array", `[{"name":"a"}`, ErrMalformedSource},
		{"array of scalars", `["a","b"]`, ErrMalformedSource},
		{"null element", `[{"name":"a"}, null]`, ErrMalformedSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseRaw([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "expected %v, got %v", tt.want, err)
			assert.Nil(t, records)
		})
	}
}

func TestParseRaw_Heterogeneous(t *testing.T) {
	payload := `[
		{"id": 7, "name": "Numeric"},
		{"id": "abc", "name": "Stringy", "operations": {"days": "Saturday"}},
		{"id": null, "name": "Null id", "contact": {"emails": null}},
		{"id": 12.0, "name": "Float id", "location": {"coordinates": {"latitude": null, "longitude": -70.1}}}
	]`

	records, err := ParseRaw([]byte(payload))
	require.NoError(t, err)
	require.Len(t, records, 4)

	require.NotNil(t, records[0].ID)
	assert.Equal(t, RawID("7"), *records[0].ID)
	assert.Equal(t, RawID("abc"), *records[1].ID)
	assert.Equal(t, StringList{"Saturday"}, records[1].Operations.Days)
	assert.Nil(t, records[2].ID)
	assert.Nil(t, records[2].Contact.Emails)
	assert.Equal(t, RawID("12"), *records[3].ID)
	assert.False(t, records[3].Location.Coordinates.Latitude.Valid)
	assert.True(t, records[3].Location.Coordinates.Longitude.Valid)
}

func TestParseRaw_UnexpectedFieldTypes(t *testing.T) {
	tests := []struct {
		name  string
		field string
		check func(t *testing.T, rec RawMarket)
	}{
		{"numeric zip code", `"location": {"zip_code": 83702}`, func(t *testing.T, rec RawMarket) {
			assert.Equal(t, RawText("83702"), rec.Location.ZipCode)
		}},
		{"numeric name", `"name": 42`, func(t *testing.T, rec RawMarket) {
			assert.Equal(t, RawText("42"), rec.Name)
		}},
		{"bool id", `"id": true`, func(t *testing.T, rec RawMarket) {
			require.NotNil(t, rec.ID)
			assert.Equal(t, RawID("true"), *rec.ID)
		}},
		{"object id", `"id": {"value": 3}`, func(t *testing.T, rec RawMarket) {
			require.NotNil(t, rec.ID)
			assert.Equal(t, RawID(""), *rec.ID)
		}},
		{"non-numeric vendor count", `"operations": {"vendor_count": "20+"}`, func(t *testing.T, rec RawMarket) {
			assert.False(t, rec.Operations.VendorCount.Valid)
		}},
		{"numeric string vendor count", `"operations": {"vendor_count": "20"}`, func(t *testing.T, rec RawMarket) {
			assert.Equal(t, RawNumber{Value: 20, Valid: true}, rec.Operations.VendorCount)
		}},
		{"string coordinates", `"location": {"coordinates": {"latitude": "43.6", "longitude": "west"}}`, func(t *testing.T, rec RawMarket) {
			assert.Equal(t, RawNumber{Value: 43.6, Valid: true}, rec.Location.Coordinates.Latitude)
			assert.False(t, rec.Location.Coordinates.Longitude.Valid)
		}},
		{"string flag", `"payment": {"food_assistance": {"snap": "yes", "wic": true}}`, func(t *testing.T, rec RawMarket) {
			assert.False(t, rec.Payment.FoodAssistance.SNAP.Set)
			assert.Equal(t, RawFlag{Value: true, Set: true}, rec.Payment.FoodAssistance.WIC)
		}},
		{"mixed list", `"products": {"items": ["Eggs", 3, null, {"x": 1}, false]}`, func(t *testing.T, rec RawMarket) {
			assert.Equal(t, StringList{"Eggs", "3", "false"}, rec.Products.Items)
		}},
		{"object list", `"contact": {"emails": {"primary": "a@b.c"}}`, func(t *testing.T, rec RawMarket) {
			assert.Nil(t, rec.Contact.Emails)
		}},
		{"scalar group", `"location": "Boise, ID"`, func(t *testing.T, rec RawMarket) {
			require.NotNil(t, rec.Location)
			assert.Equal(t, RawLocation{}, *rec.Location)
		}},
		{"array group", `"amenities": ["parking"]`, func(t *testing.T, rec RawMarket) {
			require.NotNil(t, rec.Amenities)
			assert.Equal(t, RawAmenities{}, *rec.Amenities)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `[{"name": "Good"}, {` + tt.field + `}]`
			records, err := ParseRaw([]byte(payload))
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, RawText("Good"), records[0].Name)
			tt.check(t, records[1])
		})
	}
}

func TestParseRaw_EmptyArray(t *testing.T) {
	records, err := ParseRaw([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, ErrSourceUnavailable)
		assert.Equal(t, "source_unavailable", FailureKind(err))
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "markets.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"name":"A"},{"name":"B"}]`), 0o644))

		records, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestFailureKind(t *testing.T) {
	assert.Equal(t, "", FailureKind(nil))
	assert.Equal(t, "empty_source", FailureKind(ErrEmptySource))
	assert.Equal(t, "malformed_source", FailureKind(ErrMalformedSource))
	assert.Equal(t, "unknown", FailureKind(errors.New("boom")))
}

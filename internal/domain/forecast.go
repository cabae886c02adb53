package domain

import "context"

// Coarse pollen type codes used by the Google Pollen API.
const (
	PollenTypeGrass = "GRASS"
	PollenTypeTree  = "TREE"
	PollenTypeWeed  = "WEED"
)

// PollenTypes lists all coarse pollen type codes in display order.
var PollenTypes = []string{PollenTypeGrass, PollenTypeTree, PollenTypeWeed}

// UPI category labels as reported by the provider, lowest to highest.
const (
	UPICategoryNone     = "None"
	UPICategoryVeryLow  = "Very Low"
	UPICategoryLow      = "Low"
	UPICategoryModerate = "Moderate"
	UPICategoryHigh     = "High"
	UPICategoryVeryHigh = "Very High"
)

// UnitUPI is the unit of the index value scale.
const UnitUPI = "UPI"

// PollenIndex is one index measurement on the UPI scale. Value is nil when
// the provider reports no measurement (distinct from a measured zero).
type PollenIndex struct {
	Code        string             `json:"code"`
	DisplayName string             `json:"displayName"`
	Value       *int               `json:"value,omitempty"`
	Category    string             `json:"category,omitempty"`
	Description string             `json:"description,omitempty"`
	Color       map[string]float64 `json:"color,omitempty"`
}

// PlantDescription holds descriptive plant metadata. Every field is optional;
// absence is a valid state, not an error.
type PlantDescription struct {
	Type           string `json:"type,omitempty"`
	Family         string `json:"family,omitempty"`
	Season         string `json:"season,omitempty"`
	SpecialColors  string `json:"specialColors,omitempty"`
	SpecialShapes  string `json:"specialShapes,omitempty"`
	CrossReaction  string `json:"crossReaction,omitempty"`
	Picture        string `json:"picture,omitempty"`
	PictureCloseup string `json:"pictureCloseup,omitempty"`
}

// PlantInfo is the per-day entry for one plant species.
type PlantInfo struct {
	Code             string            `json:"code"`
	DisplayName      string            `json:"displayName"`
	InSeason         bool              `json:"inSeason"`
	IndexInfo        *PollenIndex      `json:"indexInfo,omitempty"`
	PlantDescription *PlantDescription `json:"plantDescription,omitempty"`
}

// PollenTypeInfo is the per-day entry for one coarse pollen type.
type PollenTypeInfo struct {
	Code                  string       `json:"code"`
	DisplayName           string       `json:"displayName"`
	InSeason              bool         `json:"inSeason"`
	IndexInfo             *PollenIndex `json:"indexInfo,omitempty"`
	HealthRecommendations []string     `json:"healthRecommendations,omitempty"`
}

// DailyPollenInfo is one forecast day. PollenTypes and Plants are keyed by
// code; the date is a "YYYY-MM-DD" string as rendered by the parser.
type DailyPollenInfo struct {
	Date        string                    `json:"date"`
	PollenTypes map[string]PollenTypeInfo `json:"pollenTypes"`
	Plants      map[string]PlantInfo      `json:"plants"`
}

// Forecast is a parsed multi-day pollen forecast. It is immutable once
// constructed; the coordinator replaces the whole value on refresh rather
// than mutating it in place. DailyInfo keeps provider order, earliest day
// first.
type Forecast struct {
	RegionCode string            `json:"regionCode"`
	DailyInfo  []DailyPollenInfo `json:"dailyInfo"`
}

// ForecastFetcher retrieves a pollen forecast for a coordinate.
type ForecastFetcher interface {
	// FetchForecast returns a forecast covering up to days days starting today.
	FetchForecast(ctx context.Context, latitude, longitude float64, days int) (Forecast, error)
}

package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Wire types for the forecast:lookup response. Pointers mark fields whose
// absence must be distinguishable from their zero value.

type forecastPayload struct {
	RegionCode string            `json:"regionCode"`
	DailyInfo  []json.RawMessage `json:"dailyInfo"`
}

type dayPayload struct {
	Date           datePayload       `json:"date"`
	PollenTypeInfo []json.RawMessage `json:"pollenTypeInfo"`
	PlantInfo      []json.RawMessage `json:"plantInfo"`
}

type datePayload struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

type pollenTypePayload struct {
	Code                  string        `json:"code"`
	DisplayName           string        `json:"displayName"`
	InSeason              bool          `json:"inSeason"`
	IndexInfo             *indexPayload `json:"indexInfo"`
	HealthRecommendations []string      `json:"healthRecommendations"`
}

type plantPayload struct {
	Code             string                   `json:"code"`
	DisplayName      string                   `json:"displayName"`
	InSeason         bool                     `json:"inSeason"`
	IndexInfo        *indexPayload            `json:"indexInfo"`
	PlantDescription *plantDescriptionPayload `json:"plantDescription"`
}

type indexPayload struct {
	Code             string             `json:"code"`
	DisplayName      string             `json:"displayName"`
	Value            *int               `json:"value"`
	Category         string             `json:"category"`
	IndexDescription string             `json:"indexDescription"`
	Color            map[string]float64 `json:"color"`
}

type plantDescriptionPayload struct {
	Type           string `json:"type"`
	Family         string `json:"family"`
	Season         string `json:"season"`
	SpecialColors  string `json:"specialColors"`
	SpecialShapes  string `json:"specialShapes"`
	CrossReaction  string `json:"crossReaction"`
	Picture        string `json:"picture"`
	PictureCloseup string `json:"pictureCloseup"`
}

// ParseForecast converts a raw forecast:lookup response body into a Forecast.
// It only fails on a malformed JSON document. Within a well-formed document
// parsing is total: absent fields take defaults, and each day, pollen type,
// and plant entry is decoded independently so one malformed item cannot take
// its siblings down with it. encoding/json fills whatever fields it managed
// to decode before a type mismatch, which gives the required best-effort
// behavior for malformed items.
func ParseForecast(data []byte) (Forecast, error) {
	var payload forecastPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Forecast{}, fmt.Errorf("decode forecast response: %w", err)
	}

	forecast := Forecast{RegionCode: payload.RegionCode}

	for _, rawDay := range payload.DailyInfo {
		var day dayPayload
		_ = json.Unmarshal(rawDay, &day)

		info := DailyPollenInfo{
			Date:        formatDate(day.Date),
			PollenTypes: make(map[string]PollenTypeInfo, len(day.PollenTypeInfo)),
			Plants:      make(map[string]PlantInfo, len(day.PlantInfo)),
		}

		for _, raw := range day.PollenTypeInfo {
			var pt pollenTypePayload
			_ = json.Unmarshal(raw, &pt)
			info.PollenTypes[pt.Code] = PollenTypeInfo{
				Code:                  pt.Code,
				DisplayName:           pt.DisplayName,
				InSeason:              pt.InSeason,
				IndexInfo:             parseIndex(pt.IndexInfo),
				HealthRecommendations: pt.HealthRecommendations,
			}
		}

		for _, raw := range day.PlantInfo {
			var pl plantPayload
			_ = json.Unmarshal(raw, &pl)
			info.Plants[pl.Code] = PlantInfo{
				Code:             pl.Code,
				DisplayName:      pl.DisplayName,
				InSeason:         pl.InSeason,
				IndexInfo:        parseIndex(pl.IndexInfo),
				PlantDescription: parsePlantDescription(pl.PlantDescription),
			}
		}

		forecast.DailyInfo = append(forecast.DailyInfo, info)
	}

	return forecast, nil
}

func parseIndex(p *indexPayload) *PollenIndex {
	if p == nil {
		return nil
	}
	return &PollenIndex{
		Code:        p.Code,
		DisplayName: p.DisplayName,
		Value:       p.Value,
		Category:    p.Category,
		Description: p.IndexDescription,
		Color:       p.Color,
	}
}

func parsePlantDescription(p *plantDescriptionPayload) *PlantDescription {
	if p == nil {
		return nil
	}
	return &PlantDescription{
		Type:           p.Type,
		Family:         p.Family,
		Season:         p.Season,
		SpecialColors:  p.SpecialColors,
		SpecialShapes:  p.SpecialShapes,
		CrossReaction:  p.CrossReaction,
		Picture:        p.Picture,
		PictureCloseup: p.PictureCloseup,
	}
}

// formatDate renders year/month/day as "YYYY-MM-DD" with month and day
// zero-padded. A missing sub-field renders as an empty component, so a
// payload without a day yields "2024-03-". Degenerate but deliberate: the
// date is a display label and a partial one is more useful than none.
func formatDate(d datePayload) string {
	year := ""
	if d.Year != nil {
		year = strconv.Itoa(*d.Year)
	}
	return fmt.Sprintf("%s-%s-%s", year, padComponent(d.Month), padComponent(d.Day))
}

func padComponent(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%02d", *v)
}

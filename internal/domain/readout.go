package domain

// TypeReadout pairs a coarse pollen-type code with its metrics derived from
// the first forecast day. Nil pointers mean the forecast carries no data for
// that aspect (no days, type missing, or no index measurement).
type TypeReadout struct {
	Code                  string       `json:"code"`
	Index                 *int         `json:"index,omitempty"`
	Category              string       `json:"category,omitempty"`
	InSeason              *bool        `json:"inSeason,omitempty"`
	Description           string       `json:"description,omitempty"`
	HealthRecommendations []string     `json:"healthRecommendations,omitempty"`
	Upcoming              []DayReadout `json:"upcoming,omitempty"`
}

// DayReadout is the index/category pair for one upcoming forecast day.
type DayReadout struct {
	Date     string `json:"date"`
	Index    *int   `json:"index,omitempty"`
	Category string `json:"category,omitempty"`
}

// TypeReadout derives the readout for one pollen-type code. It never fails:
// a forecast with no days yields a readout with only the code set.
func (f Forecast) TypeReadout(code string) TypeReadout {
	r := TypeReadout{Code: code}
	if len(f.DailyInfo) == 0 {
		return r
	}

	today := f.DailyInfo[0]
	if info, ok := today.PollenTypes[code]; ok {
		inSeason := info.InSeason
		r.InSeason = &inSeason
		r.HealthRecommendations = info.HealthRecommendations
		if info.IndexInfo != nil {
			r.Index = info.IndexInfo.Value
			r.Category = info.IndexInfo.Category
			r.Description = info.IndexInfo.Description
		}
	}

	for _, day := range f.DailyInfo[1:] {
		info, ok := day.PollenTypes[code]
		if !ok || info.IndexInfo == nil {
			continue
		}
		r.Upcoming = append(r.Upcoming, DayReadout{
			Date:     day.Date,
			Index:    info.IndexInfo.Value,
			Category: info.IndexInfo.Category,
		})
	}

	return r
}

// Readouts derives readouts for all coarse pollen types in display order.
func (f Forecast) Readouts() []TypeReadout {
	readouts := make([]TypeReadout, 0, len(PollenTypes))
	for _, code := range PollenTypes {
		readouts = append(readouts, f.TypeReadout(code))
	}
	return readouts
}

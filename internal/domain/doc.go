// Package domain models Google Pollen API forecast data.
//
// # Data Source
//
// Forecasts come from the Google Pollen API forecast:lookup endpoint,
// documented at https://developers.google.com/maps/documentation/pollen.
// A single GET returns up to five days of pollen data for a coordinate:
// a region code plus, per day, an index entry for each coarse pollen type
// (GRASS, TREE, WEED) and for individual plant species tracked in that
// region.
//
// # UPI Scale
//
// Index values are expressed on the Universal Pollen Index (UPI), an integer
// scale from 0 to 5 with matching category labels:
//
//	0 None | 1 Very Low | 2 Low | 3 Moderate | 4 High | 5 Very High
//
// Values and category labels are surfaced exactly as the provider reports
// them; no conversion or localization happens here.
//
// # Payload Leniency
//
// The upstream payload is semi-structured: nearly every field may be absent.
// An out-of-season pollen type has no indexInfo at all, plant descriptions
// only appear when requested, and days past the provider's data horizon can
// arrive with partial content. Parsing is therefore total: an absent field
// degrades to its zero value (or a nil pointer for genuinely optional nested
// objects) and never fails the parse. See [ParseForecast].
//
// Dates arrive as separate year/month/day integers and are rendered as
// zero-padded "YYYY-MM-DD" strings. A missing sub-field renders as an empty
// component ("2024-03-") rather than an error; downstream consumers treat
// the date as an opaque label.
//
// # Ordering and Uniqueness
//
// DailyInfo preserves provider order, which is chronological starting at the
// query date; it is never re-sorted. Pollen types and plants are keyed by
// code within a day. If the provider repeats a code the later occurrence
// wins.
package domain

package models

import "time"

// SearchState discriminates the outcomes of a MAC search. All of them are
// expected, renderable states; none is an error.
type SearchState string

const (
	SearchOK               SearchState = "ok"
	SearchTableUnavailable SearchState = "table_unavailable"
	SearchInputTooShort    SearchState = "input_too_short"
	SearchNoDataForFilters SearchState = "no_data_for_filters"
	SearchNoMatchForMac    SearchState = "no_match_for_mac"
)

// DisplayRow is the projection of a merged charge record onto the columns
// the search partial renders.
type DisplayRow struct {
	Site         string     `json:"site"`
	ChargePoint  string     `json:"pdc"`
	StartTime    *time.Time `json:"datetime_start"`
	EndTime      *time.Time `json:"datetime_end"`
	SOCEvolution string     `json:"evolution_soc"`
	MAC          string     `json:"mac_formatted"`
	Vehicle      string     `json:"vehicle"`
	EnergyKWh    *float64   `json:"energy_kwh"`
	DetailLink   string     `json:"elto_link"`
}

type SearchResult struct {
	State       SearchState  `json:"state"`
	MacQuery    string       `json:"mac_query"`
	Total       int          `json:"total"`
	OKCount     int          `json:"ok_count"`
	NotOKCount  int          `json:"nok_count"`
	SuccessRate float64      `json:"success_rate"`
	OKRows      []DisplayRow `json:"ok_rows"`
	NotOKRows   []DisplayRow `json:"nok_rows"`
}

package models

import "time"

// ChargeRecord is one charging session as read from the store, after the
// session-quality row (when present) has been merged in. Optional columns
// are pointers; a nil field means the store had nothing usable there.
type ChargeRecord struct {
	ID          string
	Site        *string
	ChargePoint *string
	StartTime   *time.Time
	EndTime     *time.Time
	EnergyKWh   *float64
	MAC         *string
	Vehicle     *string
	SOCStart    *float64
	SOCEnd      *float64
	OK          bool
}

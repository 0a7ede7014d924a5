package entities

import "time"

// ItemID references a product in the external Catalog Service
type ItemID string

// Quantity represents an integer stock quantity in discrete units
type Quantity int64

// RecordStatus represents the lifecycle status of an inventory record
type RecordStatus int

const (
	StatusActive RecordStatus = iota
	StatusInactive
	StatusDiscontinued
)

// String method for RecordStatus enum
func (s RecordStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusDiscontinued:
		return "discontinued"
	default:
		return "unknown"
	}
}

// Season represents a calendar quarter used for seasonal demand lookup
type Season int

const (
	Spring Season = iota
	Summer
	Fall
	Winter
)

// String method for Season enum
func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Fall:
		return "fall"
	case Winter:
		return "winter"
	default:
		return "unknown"
	}
}

// SeasonOf maps a point in time to its season: Mar-May spring, Jun-Aug
// summer, Sep-Nov fall, Dec-Feb winter.
func SeasonOf(t time.Time) Season {
	switch m := t.Month(); {
	case m >= time.March && m <= time.May:
		return Spring
	case m >= time.June && m <= time.August:
		return Summer
	case m >= time.September && m <= time.November:
		return Fall
	default:
		return Winter
	}
}

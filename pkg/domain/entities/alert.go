package entities

import "time"

// AlertType classifies a stock alert
type AlertType string

const (
	AlertLowStock      AlertType = "low_stock"
	AlertCriticalStock AlertType = "critical_stock"
	AlertOverstock     AlertType = "overstock"
	AlertRestockNeeded AlertType = "restock_needed"
)

// Severity ranks how urgently an alert needs attention
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns an ordinal for sorting, higher = more severe
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Alert is a derived projection of current stock against thresholds. The
// active set is recomputed wholesale on every relevant state change; an
// alert never outlives its triggering condition.
type Alert struct {
	Type     AlertType
	Severity Severity
	Message  string
	RaisedAt time.Time
}

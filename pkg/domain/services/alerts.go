package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

// AlertEvaluator recomputes the full alert set for an item. The result
// replaces any previously active alerts: alerts are a pure projection of
// current state, never an accumulating log (the ledger is the log).
type AlertEvaluator struct {
	config ScoringConfig
}

// NewAlertEvaluator creates an evaluator with default configuration
func NewAlertEvaluator() *AlertEvaluator {
	return NewAlertEvaluatorWithConfig(DefaultScoringConfig())
}

// NewAlertEvaluatorWithConfig creates an evaluator with custom configuration
func NewAlertEvaluatorWithConfig(config ScoringConfig) *AlertEvaluator {
	return &AlertEvaluator{config: config}
}

// Evaluate returns the alerts that hold for the current stock level.
// The low/critical band is exclusive: at most one of critical_stock or
// low_stock is raised. restock_needed and overstock can co-occur with it.
func (e *AlertEvaluator) Evaluate(currentStock entities.Quantity, thresholds entities.Thresholds, now time.Time) []entities.Alert {
	var alerts []entities.Alert

	switch {
	case currentStock == 0:
		alerts = append(alerts, entities.Alert{
			Type:     entities.AlertCriticalStock,
			Severity: entities.SeverityCritical,
			Message:  "Product is out of stock",
			RaisedAt: now,
		})
	case currentStock <= thresholds.CriticalStock:
		alerts = append(alerts, entities.Alert{
			Type:     entities.AlertCriticalStock,
			Severity: entities.SeverityCritical,
			Message:  fmt.Sprintf("Stock is critically low (%d remaining)", currentStock),
			RaisedAt: now,
		})
	case currentStock <= thresholds.LowStock:
		alerts = append(alerts, entities.Alert{
			Type:     entities.AlertLowStock,
			Severity: entities.SeverityHigh,
			Message:  fmt.Sprintf("Stock is low (%d remaining)", currentStock),
			RaisedAt: now,
		})
	}

	if currentStock <= thresholds.ReorderPoint {
		alerts = append(alerts, entities.Alert{
			Type:     entities.AlertRestockNeeded,
			Severity: entities.SeverityMedium,
			Message:  "Reorder point reached",
			RaisedAt: now,
		})
	}

	overstockAt := decimal.NewFromInt(int64(thresholds.OptimalStock)).
		Mul(e.config.OverstockAlertFactor)
	if decimal.NewFromInt(int64(currentStock)).GreaterThan(overstockAt) {
		alerts = append(alerts, entities.Alert{
			Type:     entities.AlertOverstock,
			Severity: entities.SeverityLow,
			Message:  fmt.Sprintf("Product is overstocked (%d on hand)", currentStock),
			RaisedAt: now,
		})
	}

	return alerts
}

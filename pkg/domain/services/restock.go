package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

// PlannerConfig holds the reorder-decision tuning parameters
type PlannerConfig struct {
	// LeadTimeBufferDays pads the supplier lead time in the stockout check
	LeadTimeBufferDays int
}

// DefaultPlannerConfig returns the 2-day safety buffer default
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{LeadTimeBufferDays: 2}
}

// RestockPlanner computes suggested reorder quantities and the automatic
// reorder decision from the forecast and the item's restock strategy.
type RestockPlanner struct {
	config PlannerConfig
}

// NewRestockPlanner creates a planner with default configuration
func NewRestockPlanner() *RestockPlanner {
	return NewRestockPlannerWithConfig(DefaultPlannerConfig())
}

// NewRestockPlannerWithConfig creates a planner with custom configuration
func NewRestockPlannerWithConfig(config PlannerConfig) *RestockPlanner {
	return &RestockPlanner{config: config}
}

// RecommendedQuantity suggests how much to reorder: at least the
// strategy's configured lot, more when predicted demand plus safety stock
// exceeds what is on hand. Never negative.
func (p *RestockPlanner) RecommendedQuantity(record *entities.InventoryRecord) entities.Quantity {
	demandDriven := record.Forecast.PredictedDemand +
		record.Strategy.SafetyStock -
		record.TotalStock

	qty := record.Strategy.ReorderQuantity
	if demandDriven > qty {
		qty = demandDriven
	}
	if qty < 0 {
		qty = 0
	}
	return qty
}

// ShouldReorder reports whether automatic reordering should trigger:
// auto-reorder enabled and projected days until stockout within the
// supplier lead time plus the buffer. With no velocity data the answer
// is always false; zero sales history never triggers an order.
func (p *RestockPlanner) ShouldReorder(record *entities.InventoryRecord) bool {
	if !record.Strategy.AutoReorder {
		return false
	}
	if !record.Forecast.DailyAverage.IsPositive() {
		return false
	}

	daysUntilStockout := decimal.NewFromInt(int64(record.TotalStock)).
		Div(record.Forecast.DailyAverage)
	horizon := decimal.NewFromInt(int64(record.Strategy.SupplierLeadTimeDays + p.config.LeadTimeBufferDays))

	return daysUntilStockout.LessThanOrEqual(horizon)
}

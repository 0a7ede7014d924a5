package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Thresholds hold the stock levels the alert engine evaluates against,
// conventionally ordered critical <= low <= reorder point <= optimal.
type Thresholds struct {
	LowStock      Quantity
	CriticalStock Quantity
	ReorderPoint  Quantity
	OptimalStock  Quantity
}

// NewThresholds creates validated thresholds
func NewThresholds(low, critical, reorderPoint, optimal Quantity) (Thresholds, error) {
	for name, v := range map[string]Quantity{
		"low stock": low, "critical stock": critical,
		"reorder point": reorderPoint, "optimal stock": optimal,
	} {
		if v < 0 {
			return Thresholds{}, fmt.Errorf("%w: %s threshold cannot be negative, got %d",
				ErrValidation, name, v)
		}
	}
	if critical > low {
		return Thresholds{}, fmt.Errorf("%w: critical threshold %d exceeds low threshold %d",
			ErrValidation, critical, low)
	}

	return Thresholds{
		LowStock:      low,
		CriticalStock: critical,
		ReorderPoint:  reorderPoint,
		OptimalStock:  optimal,
	}, nil
}

// ReorderFrequency represents the cadence of automatic reordering
type ReorderFrequency string

const (
	ReorderDaily    ReorderFrequency = "daily"
	ReorderWeekly   ReorderFrequency = "weekly"
	ReorderMonthly  ReorderFrequency = "monthly"
	ReorderOnDemand ReorderFrequency = "on_demand"
)

// RestockStrategy holds the per-item reordering parameters
type RestockStrategy struct {
	AutoReorder          bool
	ReorderQuantity      Quantity
	ReorderFrequency     ReorderFrequency
	SupplierLeadTimeDays int
	SafetyStock          Quantity
}

// DefaultRestockStrategy returns the strategy applied to newly provisioned items
func DefaultRestockStrategy() RestockStrategy {
	return RestockStrategy{
		AutoReorder:          false,
		ReorderQuantity:      50,
		ReorderFrequency:     ReorderOnDemand,
		SupplierLeadTimeDays: 7,
		SafetyStock:          10,
	}
}

// DemandForecast holds the derived near-term demand figures for an item
type DemandForecast struct {
	DailyAverage       decimal.Decimal
	SeasonalAdjustment decimal.Decimal
	EventAdjustment    decimal.Decimal
	PredictedDemand    Quantity
}

// ZeroForecast returns the forecast of an item with no sales history
func ZeroForecast() DemandForecast {
	return DemandForecast{
		DailyAverage:       decimal.Zero,
		SeasonalAdjustment: decimal.NewFromInt(1),
		EventAdjustment:    decimal.NewFromInt(1),
		PredictedDemand:    0,
	}
}

// SeasonalProfile maps seasons to per-item demand multipliers
type SeasonalProfile map[Season]decimal.Decimal

// Multiplier returns the multiplier for a season, defaulting to 1.0
func (p SeasonalProfile) Multiplier(s Season) decimal.Decimal {
	if p == nil {
		return decimal.NewFromInt(1)
	}
	m, ok := p[s]
	if !ok || m.IsZero() {
		return decimal.NewFromInt(1)
	}
	return m
}

// Performance tracks stockout and lost-sale counters for an item
type Performance struct {
	Stockouts Quantity
	LostSales Quantity
}

// InventoryRecord is the per-item aggregate the engine maintains. The
// quantity fields are the correctness-critical state and only change
// through the coordinator; Forecast, UrgencyScore and Alerts are derived
// projections recomputed from the ledger and current thresholds.
type InventoryRecord struct {
	ItemID        ItemID
	Category      string
	TotalStock    Quantity
	ReservedStock Quantity
	Thresholds    Thresholds
	Strategy      RestockStrategy
	Seasonal      SeasonalProfile
	Forecast      DemandForecast
	Alerts        []Alert
	UrgencyScore  int
	Performance   Performance
	Status        RecordStatus
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewInventoryRecord creates a validated record at zero stock
func NewInventoryRecord(itemID ItemID, category string, thresholds Thresholds, strategy RestockStrategy) (*InventoryRecord, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item id cannot be empty", ErrValidation)
	}
	if strategy.ReorderQuantity < 0 {
		return nil, fmt.Errorf("%w: reorder quantity cannot be negative, got %d",
			ErrValidation, strategy.ReorderQuantity)
	}
	if strategy.SafetyStock < 0 {
		return nil, fmt.Errorf("%w: safety stock cannot be negative, got %d",
			ErrValidation, strategy.SafetyStock)
	}
	if strategy.SupplierLeadTimeDays < 0 {
		return nil, fmt.Errorf("%w: supplier lead time cannot be negative, got %d",
			ErrValidation, strategy.SupplierLeadTimeDays)
	}

	return &InventoryRecord{
		ItemID:     itemID,
		Category:   category,
		Thresholds: thresholds,
		Strategy:   strategy,
		Forecast:   ZeroForecast(),
		Status:     StatusActive,
		Version:    1,
	}, nil
}

// AvailableStock returns the stock not held by open reservations
func (r *InventoryRecord) AvailableStock() Quantity {
	return r.TotalStock - r.ReservedStock
}

// Clone returns a deep copy safe to mutate independently
func (r *InventoryRecord) Clone() *InventoryRecord {
	c := *r
	if r.Alerts != nil {
		c.Alerts = make([]Alert, len(r.Alerts))
		copy(c.Alerts, r.Alerts)
	}
	if r.Seasonal != nil {
		c.Seasonal = make(SeasonalProfile, len(r.Seasonal))
		for s, m := range r.Seasonal {
			c.Seasonal[s] = m
		}
	}
	return &c
}

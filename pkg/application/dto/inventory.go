package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

// InventorySnapshot is a point-in-time read of a record including its
// derived fields
type InventorySnapshot struct {
	ItemID         entities.ItemID          `json:"item_id"`
	Category       string                   `json:"category"`
	TotalStock     entities.Quantity        `json:"total_stock"`
	ReservedStock  entities.Quantity        `json:"reserved_stock"`
	AvailableStock entities.Quantity        `json:"available_stock"`
	Thresholds     entities.Thresholds      `json:"thresholds"`
	Strategy       entities.RestockStrategy `json:"restock_strategy"`
	Forecast       ForecastView             `json:"demand_forecast"`
	Alerts         []entities.Alert         `json:"active_alerts"`
	UrgencyScore   int                      `json:"urgency_score"`
	Performance    entities.Performance     `json:"performance"`
	Status         string                   `json:"status"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// ForecastView renders forecast decimals as JSON-friendly strings
type ForecastView struct {
	DailyAverage       decimal.Decimal   `json:"daily_average"`
	SeasonalAdjustment decimal.Decimal   `json:"seasonal_adjustment"`
	EventAdjustment    decimal.Decimal   `json:"event_adjustment"`
	PredictedDemand    entities.Quantity `json:"predicted_demand"`
}

// NewInventorySnapshot builds a snapshot from a record
func NewInventorySnapshot(record *entities.InventoryRecord) InventorySnapshot {
	return InventorySnapshot{
		ItemID:         record.ItemID,
		Category:       record.Category,
		TotalStock:     record.TotalStock,
		ReservedStock:  record.ReservedStock,
		AvailableStock: record.AvailableStock(),
		Thresholds:     record.Thresholds,
		Strategy:       record.Strategy,
		Forecast: ForecastView{
			DailyAverage:       record.Forecast.DailyAverage,
			SeasonalAdjustment: record.Forecast.SeasonalAdjustment,
			EventAdjustment:    record.Forecast.EventAdjustment,
			PredictedDemand:    record.Forecast.PredictedDemand,
		},
		Alerts:       record.Alerts,
		UrgencyScore: record.UrgencyScore,
		Performance:  record.Performance,
		Status:       record.Status.String(),
		UpdatedAt:    record.UpdatedAt,
	}
}

// AlertListing pairs an alert with the item it belongs to
type AlertListing struct {
	ItemID entities.ItemID `json:"item_id"`
	Alert  entities.Alert  `json:"alert"`
}

// RestockRecommendation is one row of the reorder report
type RestockRecommendation struct {
	ItemID              entities.ItemID   `json:"item_id"`
	CurrentStock        entities.Quantity `json:"current_stock"`
	PredictedDemand     entities.Quantity `json:"predicted_demand"`
	RecommendedQuantity entities.Quantity `json:"recommended_quantity"`
	UrgencyScore        int               `json:"urgency_score"`
	ShouldReorder       bool              `json:"should_reorder"`
}

// HistoryPage is a bounded slice of an item's movement ledger, newest first
type HistoryPage struct {
	ItemID    entities.ItemID           `json:"item_id"`
	Movements []*entities.StockMovement `json:"movements"`
	Limit     int                       `json:"limit"`
	Offset    int                       `json:"offset"`
}

// DashboardStats aggregates stock health across all tracked items
type DashboardStats struct {
	TrackedItems  int               `json:"tracked_items"`
	TotalStock    entities.Quantity `json:"total_stock"`
	ReservedStock entities.Quantity `json:"reserved_stock"`
	OutOfStock    int               `json:"out_of_stock"`
	CriticalStock int               `json:"critical_stock"`
	LowStock      int               `json:"low_stock"`
	NeedReorder   int               `json:"need_reorder"`
}

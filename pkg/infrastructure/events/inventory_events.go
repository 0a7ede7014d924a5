package events

import (
	"github.com/vsinha/inventory/pkg/domain/entities"
)

const (
	StockReservedEvent  = "stock.reserved"
	StockReleasedEvent  = "stock.released"
	StockFulfilledEvent = "stock.fulfilled"
	StockAdjustedEvent  = "stock.adjusted"

	AlertRaisedEvent  = "alert.raised"
	AlertClearedEvent = "alert.cleared"

	ForecastUpdatedEvent  = "forecast.updated"
	ReorderSuggestedEvent = "reorder.suggested"

	RecordProvisionedEvent = "record.provisioned"
	RecordRetiredEvent     = "record.retired"
)

type StockChanged struct {
	Movement      entities.StockMovement `json:"movement"`
	TotalStock    entities.Quantity      `json:"total_stock"`
	ReservedStock entities.Quantity      `json:"reserved_stock"`
}

type AlertRaised struct {
	ItemID entities.ItemID `json:"item_id"`
	Alert  entities.Alert  `json:"alert"`
}

type AlertCleared struct {
	ItemID    entities.ItemID    `json:"item_id"`
	AlertType entities.AlertType `json:"alert_type"`
}

type ForecastUpdated struct {
	ItemID       entities.ItemID         `json:"item_id"`
	Forecast     entities.DemandForecast `json:"forecast"`
	UrgencyScore int                     `json:"urgency_score"`
}

type ReorderSuggested struct {
	ItemID              entities.ItemID   `json:"item_id"`
	RecommendedQuantity entities.Quantity `json:"recommended_quantity"`
	UrgencyScore        int               `json:"urgency_score"`
}

type RecordProvisioned struct {
	ItemID   entities.ItemID `json:"item_id"`
	Category string          `json:"category"`
}

type RecordRetired struct {
	ItemID entities.ItemID `json:"item_id"`
}

func stockEventType(action entities.MovementAction) string {
	switch action {
	case entities.ActionReserve:
		return StockReservedEvent
	case entities.ActionRelease:
		return StockReleasedEvent
	case entities.ActionFulfill:
		return StockFulfilledEvent
	default:
		return StockAdjustedEvent
	}
}

func NewStockChangedEvent(movement entities.StockMovement, total, reserved entities.Quantity) Event {
	return NewEvent(stockEventType(movement.Action), string(movement.ItemID), StockChanged{
		Movement:      movement,
		TotalStock:    total,
		ReservedStock: reserved,
	})
}

func NewAlertRaisedEvent(itemID entities.ItemID, alert entities.Alert) Event {
	return NewEvent(AlertRaisedEvent, string(itemID), AlertRaised{ItemID: itemID, Alert: alert})
}

func NewAlertClearedEvent(itemID entities.ItemID, alertType entities.AlertType) Event {
	return NewEvent(AlertClearedEvent, string(itemID), AlertCleared{ItemID: itemID, AlertType: alertType})
}

func NewForecastUpdatedEvent(itemID entities.ItemID, forecast entities.DemandForecast, urgencyScore int) Event {
	return NewEvent(ForecastUpdatedEvent, string(itemID), ForecastUpdated{
		ItemID:       itemID,
		Forecast:     forecast,
		UrgencyScore: urgencyScore,
	})
}

func NewReorderSuggestedEvent(itemID entities.ItemID, quantity entities.Quantity, urgencyScore int) Event {
	return NewEvent(ReorderSuggestedEvent, string(itemID), ReorderSuggested{
		ItemID:              itemID,
		RecommendedQuantity: quantity,
		UrgencyScore:        urgencyScore,
	})
}

func NewRecordProvisionedEvent(itemID entities.ItemID, category string) Event {
	return NewEvent(RecordProvisionedEvent, string(itemID), RecordProvisioned{ItemID: itemID, Category: category})
}

func NewRecordRetiredEvent(itemID entities.ItemID) Event {
	return NewEvent(RecordRetiredEvent, string(itemID), RecordRetired{ItemID: itemID})
}

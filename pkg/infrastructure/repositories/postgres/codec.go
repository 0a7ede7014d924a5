package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

// JSONB document shapes for the derived and configuration columns.

type forecastDoc struct {
	DailyAverage       decimal.Decimal   `json:"daily_average"`
	SeasonalAdjustment decimal.Decimal   `json:"seasonal_adjustment"`
	EventAdjustment    decimal.Decimal   `json:"event_adjustment"`
	PredictedDemand    entities.Quantity `json:"predicted_demand"`
}

func seasonalDoc(profile entities.SeasonalProfile) map[string]decimal.Decimal {
	doc := make(map[string]decimal.Decimal, len(profile))
	for season, multiplier := range profile {
		doc[season.String()] = multiplier
	}
	return doc
}

func parseSeasonal(doc map[string]decimal.Decimal) entities.SeasonalProfile {
	if len(doc) == 0 {
		return nil
	}
	profile := make(entities.SeasonalProfile, len(doc))
	for name, multiplier := range doc {
		switch name {
		case entities.Spring.String():
			profile[entities.Spring] = multiplier
		case entities.Summer.String():
			profile[entities.Summer] = multiplier
		case entities.Fall.String():
			profile[entities.Fall] = multiplier
		case entities.Winter.String():
			profile[entities.Winter] = multiplier
		}
	}
	return profile
}

func parseStatus(s string) entities.RecordStatus {
	switch s {
	case entities.StatusInactive.String():
		return entities.StatusInactive
	case entities.StatusDiscontinued.String():
		return entities.StatusDiscontinued
	default:
		return entities.StatusActive
	}
}

func marshalDerived(record *entities.InventoryRecord) (strategy, seasonal, forecast, alerts []byte, err error) {
	if strategy, err = json.Marshal(record.Strategy); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal strategy: %w", err)
	}
	if seasonal, err = json.Marshal(seasonalDoc(record.Seasonal)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal seasonal profile: %w", err)
	}
	if forecast, err = json.Marshal(forecastDoc{
		DailyAverage:       record.Forecast.DailyAverage,
		SeasonalAdjustment: record.Forecast.SeasonalAdjustment,
		EventAdjustment:    record.Forecast.EventAdjustment,
		PredictedDemand:    record.Forecast.PredictedDemand,
	}); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal forecast: %w", err)
	}
	if alerts, err = json.Marshal(record.Alerts); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal alerts: %w", err)
	}
	return strategy, seasonal, forecast, alerts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*entities.InventoryRecord, error) {
	var (
		record       entities.InventoryRecord
		status       string
		strategyJSON []byte
		seasonalJSON []byte
		forecastJSON []byte
		alertsJSON   []byte
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(
		&record.ItemID, &record.Category, &record.TotalStock, &record.ReservedStock,
		&record.Thresholds.LowStock, &record.Thresholds.CriticalStock,
		&record.Thresholds.ReorderPoint, &record.Thresholds.OptimalStock,
		&strategyJSON, &seasonalJSON, &forecastJSON, &alertsJSON, &record.UrgencyScore,
		&record.Performance.Stockouts, &record.Performance.LostSales,
		&status, &record.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(strategyJSON, &record.Strategy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal strategy: %w", err)
	}
	var seasonal map[string]decimal.Decimal
	if err := json.Unmarshal(seasonalJSON, &seasonal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seasonal profile: %w", err)
	}
	record.Seasonal = parseSeasonal(seasonal)

	var forecast forecastDoc
	if err := json.Unmarshal(forecastJSON, &forecast); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forecast: %w", err)
	}
	record.Forecast = entities.DemandForecast{
		DailyAverage:       forecast.DailyAverage,
		SeasonalAdjustment: forecast.SeasonalAdjustment,
		EventAdjustment:    forecast.EventAdjustment,
		PredictedDemand:    forecast.PredictedDemand,
	}
	if err := json.Unmarshal(alertsJSON, &record.Alerts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alerts: %w", err)
	}

	record.Status = parseStatus(status)
	record.CreatedAt = createdAt
	record.UpdatedAt = updatedAt
	return &record, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
)

// ForecastConfig holds the demand forecast tuning parameters
type ForecastConfig struct {
	// WindowDays is the trailing sales window for the daily average
	WindowDays int
	// HorizonDays is the prediction horizon
	HorizonDays int
}

// DefaultForecastConfig returns the 30-day window / 7-day horizon defaults
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{WindowDays: 30, HorizonDays: 7}
}

// ForecastCalculator derives near-term demand from trailing sales
// velocity, the item's seasonal profile and any active campaign
// multiplier. Current time is an explicit parameter so results are
// deterministic and testable.
type ForecastCalculator struct {
	config    ForecastConfig
	campaigns repositories.CampaignSource
}

// NewForecastCalculator creates a calculator with default configuration
func NewForecastCalculator(campaigns repositories.CampaignSource) *ForecastCalculator {
	return NewForecastCalculatorWithConfig(campaigns, DefaultForecastConfig())
}

// NewForecastCalculatorWithConfig creates a calculator with custom configuration
func NewForecastCalculatorWithConfig(campaigns repositories.CampaignSource, config ForecastConfig) *ForecastCalculator {
	if config.WindowDays <= 0 {
		config.WindowDays = 30
	}
	if config.HorizonDays <= 0 {
		config.HorizonDays = 7
	}
	return &ForecastCalculator{config: config, campaigns: campaigns}
}

// WindowStart returns the cutoff of the trailing sales window
func (c *ForecastCalculator) WindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -c.config.WindowDays)
}

// Compute derives the forecast for a record from the movements inside the
// trailing window. Movements outside the window must already be excluded
// by the caller's ledger read; sales before the cutoff are skipped here
// as well so over-fetching cannot skew the average.
func (c *ForecastCalculator) Compute(
	ctx context.Context,
	record *entities.InventoryRecord,
	movements []*entities.StockMovement,
	now time.Time,
) (entities.DemandForecast, error) {
	cutoff := c.WindowStart(now)

	var totalSales entities.Quantity
	for _, m := range movements {
		if m.Action != entities.ActionSale {
			continue
		}
		if m.Timestamp.Before(cutoff) || m.Timestamp.After(now) {
			continue
		}
		totalSales += m.Quantity
	}
	if totalSales < 0 {
		return entities.DemandForecast{}, fmt.Errorf("%w: negative sales total %d in forecast window",
			entities.ErrValidation, totalSales)
	}

	dailyAverage := decimal.NewFromInt(int64(totalSales)).
		Div(decimal.NewFromInt(int64(c.config.WindowDays)))

	seasonal := record.Seasonal.Multiplier(entities.SeasonOf(now))
	if !seasonal.IsPositive() {
		return entities.DemandForecast{}, fmt.Errorf("%w: seasonal multiplier must be positive, got %s",
			entities.ErrValidation, seasonal)
	}

	event := decimal.NewFromInt(1)
	if c.campaigns != nil {
		m, err := c.campaigns.ActiveMultiplier(ctx, record.ItemID, record.Category, now)
		if err != nil {
			return entities.DemandForecast{}, fmt.Errorf("failed to resolve campaign multiplier for %s: %w",
				record.ItemID, err)
		}
		if !m.IsPositive() {
			return entities.DemandForecast{}, fmt.Errorf("%w: campaign multiplier must be positive, got %s",
				entities.ErrValidation, m)
		}
		event = m
	}

	predicted := dailyAverage.
		Mul(seasonal).
		Mul(event).
		Mul(decimal.NewFromInt(int64(c.config.HorizonDays))).
		Round(0).
		IntPart()

	return entities.DemandForecast{
		DailyAverage:       dailyAverage,
		SeasonalAdjustment: seasonal,
		EventAdjustment:    event,
		PredictedDemand:    entities.Quantity(predicted),
	}, nil
}

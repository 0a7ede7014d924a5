package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

// ScoringConfig holds the tuning constants of the urgency scorer and the
// alert evaluator. The source system's literal values are defaults, not
// semantics.
type ScoringConfig struct {
	// NearStockoutFactor scales the low threshold for the score-9 band
	NearStockoutFactor decimal.Decimal
	// DemandSpikeRatio is the predicted-demand-to-stock ratio that marks a spike
	DemandSpikeRatio decimal.Decimal
	// OverstockScoreFactor scales the optimal threshold for the score-2 band
	OverstockScoreFactor decimal.Decimal
	// OverstockAlertFactor scales the optimal threshold for the overstock alert
	OverstockAlertFactor decimal.Decimal
}

// DefaultScoringConfig returns the source system's tuning constants
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		NearStockoutFactor:   decimal.NewFromFloat(0.5),
		DemandSpikeRatio:     decimal.NewFromFloat(2.0),
		OverstockScoreFactor: decimal.NewFromFloat(2.0),
		OverstockAlertFactor: decimal.NewFromFloat(1.5),
	}
}

// UrgencyScorer ranks restocking attention on a 0-10 scale, higher = more
// urgent. It is a pure function of (current stock, thresholds, predicted
// demand).
type UrgencyScorer struct {
	config ScoringConfig
}

// NewUrgencyScorer creates a scorer with default configuration
func NewUrgencyScorer() *UrgencyScorer {
	return NewUrgencyScorerWithConfig(DefaultScoringConfig())
}

// NewUrgencyScorerWithConfig creates a scorer with custom configuration
func NewUrgencyScorerWithConfig(config ScoringConfig) *UrgencyScorer {
	return &UrgencyScorer{config: config}
}

// Score evaluates the ordered urgency rules, first match wins. Stock-out
// and near-stock-out dominate demand-spike signals, which dominate the
// overstock signal.
func (s *UrgencyScorer) Score(currentStock entities.Quantity, thresholds entities.Thresholds, predictedDemand entities.Quantity) int {
	stock := decimal.NewFromInt(int64(currentStock))
	low := decimal.NewFromInt(int64(thresholds.LowStock))

	switch {
	case currentStock == 0:
		return 10
	case stock.LessThanOrEqual(low.Mul(s.config.NearStockoutFactor)):
		return 9
	case currentStock <= thresholds.LowStock:
		return 7
	case predictedDemand > 0 && s.demandRatio(currentStock, predictedDemand).GreaterThan(s.config.DemandSpikeRatio):
		return 6
	case stock.GreaterThan(decimal.NewFromInt(int64(thresholds.OptimalStock)).Mul(s.config.OverstockScoreFactor)):
		return 2
	default:
		return 5
	}
}

func (s *UrgencyScorer) demandRatio(currentStock, predictedDemand entities.Quantity) decimal.Decimal {
	divisor := currentStock
	if divisor < 1 {
		divisor = 1
	}
	return decimal.NewFromInt(int64(predictedDemand)).
		Div(decimal.NewFromInt(int64(divisor)))
}

package services

import (
	"testing"
	"time"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

func alertTypes(alerts []entities.Alert) map[entities.AlertType]entities.Severity {
	result := make(map[entities.AlertType]entities.Severity, len(alerts))
	for _, a := range alerts {
		result[a.Type] = a.Severity
	}
	return result
}

func TestAlertEvaluator_Evaluate(t *testing.T) {
	evaluator := NewAlertEvaluator()
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		currentStock entities.Quantity
		thresholds   entities.Thresholds
		want         map[entities.AlertType]entities.Severity
	}{
		{
			name:         "out of stock",
			currentStock: 0,
			thresholds:   entities.Thresholds{LowStock: 10, CriticalStock: 5, ReorderPoint: 15, OptimalStock: 100},
			want: map[entities.AlertType]entities.Severity{
				entities.AlertCriticalStock: entities.SeverityCritical,
				entities.AlertRestockNeeded: entities.SeverityMedium,
			},
		},
		{
			name:         "critically low",
			currentStock: 4,
			thresholds:   entities.Thresholds{LowStock: 10, CriticalStock: 5, ReorderPoint: 15, OptimalStock: 100},
			want: map[entities.AlertType]entities.Severity{
				entities.AlertCriticalStock: entities.SeverityCritical,
				entities.AlertRestockNeeded: entities.SeverityMedium,
			},
		},
		{
			name:         "low but not critical, reorder point disabled",
			currentStock: 8,
			thresholds:   entities.Thresholds{LowStock: 10, CriticalStock: 5, ReorderPoint: 0, OptimalStock: 100},
			want: map[entities.AlertType]entities.Severity{
				entities.AlertLowStock: entities.SeverityHigh,
			},
		},
		{
			name:         "low with reorder point reached",
			currentStock: 8,
			thresholds:   entities.Thresholds{LowStock: 10, CriticalStock: 5, ReorderPoint: 15, OptimalStock: 100},
			want: map[entities.AlertType]entities.Severity{
				entities.AlertLowStock:      entities.SeverityHigh,
				entities.AlertRestockNeeded: entities.SeverityMedium,
			},
		},
		{
			name:         "healthy band",
			currentStock: 50,
			thresholds:   entities.Thresholds{LowStock: 10, CriticalStock: 5, ReorderPoint: 15, OptimalStock: 100},
			want:         map[entities.AlertType]entities.Severity{},
		},
		{
			name:         "at the overstock bound",
			currentStock: 150,
			thresholds:   entities.Thresholds{LowStock: 10, CriticalStock: 5, ReorderPoint: 15, OptimalStock: 100},
			want:         map[entities.AlertType]entities.Severity{},
		},
		{
			name:         "overstocked",
			currentStock: 151,
			thresholds:   entities.Thresholds{LowStock: 10, CriticalStock: 5, ReorderPoint: 15, OptimalStock: 100},
			want: map[entities.AlertType]entities.Severity{
				entities.AlertOverstock: entities.SeverityLow,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := evaluator.Evaluate(tc.currentStock, tc.thresholds, now)

			got := alertTypes(alerts)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected alerts %v, got %v", tc.want, got)
			}
			for wantType, wantSeverity := range tc.want {
				severity, ok := got[wantType]
				if !ok {
					t.Errorf("Expected alert %s to be raised", wantType)
					continue
				}
				if severity != wantSeverity {
					t.Errorf("Expected %s severity %s, got %s", wantType, wantSeverity, severity)
				}
			}
			for _, a := range alerts {
				if !a.RaisedAt.Equal(now) {
					t.Errorf("Expected RaisedAt %s, got %s", now, a.RaisedAt)
				}
			}
		})
	}
}

func TestAlertEvaluator_LowCriticalBandExclusive(t *testing.T) {
	evaluator := NewAlertEvaluator()
	thresholds := entities.Thresholds{LowStock: 10, CriticalStock: 5, ReorderPoint: 15, OptimalStock: 100}

	for stock := entities.Quantity(0); stock <= 12; stock++ {
		alerts := evaluator.Evaluate(stock, thresholds, time.Now())
		got := alertTypes(alerts)
		_, critical := got[entities.AlertCriticalStock]
		_, low := got[entities.AlertLowStock]
		if critical && low {
			t.Errorf("Stock %d raised both critical_stock and low_stock", stock)
		}
	}
}

func TestAlertEvaluator_OutOfStockMessage(t *testing.T) {
	evaluator := NewAlertEvaluator()
	thresholds := entities.Thresholds{LowStock: 10, CriticalStock: 5}

	alerts := evaluator.Evaluate(0, thresholds, time.Now())
	if len(alerts) == 0 {
		t.Fatal("Expected an out-of-stock alert")
	}
	if alerts[0].Message != "Product is out of stock" {
		t.Errorf("Expected out-of-stock message, got %q", alerts[0].Message)
	}
}

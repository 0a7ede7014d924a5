package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/vsinha/inventory/pkg/application/dto"
	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
	domainsvc "github.com/vsinha/inventory/pkg/domain/services"
)

// AlertFilter narrows an alert listing; zero values match everything
type AlertFilter struct {
	Severity entities.Severity
	Type     entities.AlertType
}

// InventoryQueryService serves the read side: snapshots, alert listings,
// restock recommendations, movement history and dashboard aggregates.
// Derived fields may lag in-flight mutations; quantities are read
// consistently from the record store.
type InventoryQueryService struct {
	records repositories.InventoryRepository
	ledger  repositories.LedgerRepository
	planner *domainsvc.RestockPlanner
}

// NewInventoryQueryService creates a query service
func NewInventoryQueryService(
	records repositories.InventoryRepository,
	ledger repositories.LedgerRepository,
	planner *domainsvc.RestockPlanner,
) *InventoryQueryService {
	return &InventoryQueryService{records: records, ledger: ledger, planner: planner}
}

// GetInventory returns a snapshot of one record including derived fields
func (s *InventoryQueryService) GetInventory(ctx context.Context, itemID entities.ItemID) (dto.InventorySnapshot, error) {
	record, err := s.records.Get(ctx, itemID)
	if err != nil {
		return dto.InventorySnapshot{}, err
	}
	return dto.NewInventorySnapshot(record), nil
}

// ListAlerts returns every active alert matching the filter, most severe
// first, ties broken by item id for a stable order.
func (s *InventoryQueryService) ListAlerts(ctx context.Context, filter AlertFilter) ([]dto.AlertListing, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	var listings []dto.AlertListing
	for _, record := range records {
		for _, alert := range record.Alerts {
			if filter.Severity != "" && alert.Severity != filter.Severity {
				continue
			}
			if filter.Type != "" && alert.Type != filter.Type {
				continue
			}
			listings = append(listings, dto.AlertListing{ItemID: record.ItemID, Alert: alert})
		}
	}

	sort.Slice(listings, func(i, j int) bool {
		ri, rj := listings[i].Alert.Severity.Rank(), listings[j].Alert.Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return listings[i].ItemID < listings[j].ItemID
	})

	return listings, nil
}

// RestockRecommendations returns a reorder row for every active item at
// or below its reorder point, most urgent first, then lowest stock.
func (s *InventoryQueryService) RestockRecommendations(ctx context.Context) ([]dto.RestockRecommendation, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	var recommendations []dto.RestockRecommendation
	for _, record := range records {
		if record.Status == entities.StatusDiscontinued {
			continue
		}
		if record.TotalStock > record.Thresholds.ReorderPoint {
			continue
		}
		recommendations = append(recommendations, dto.RestockRecommendation{
			ItemID:              record.ItemID,
			CurrentStock:        record.TotalStock,
			PredictedDemand:     record.Forecast.PredictedDemand,
			RecommendedQuantity: s.planner.RecommendedQuantity(record),
			UrgencyScore:        record.UrgencyScore,
			ShouldReorder:       s.planner.ShouldReorder(record),
		})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		if recommendations[i].UrgencyScore != recommendations[j].UrgencyScore {
			return recommendations[i].UrgencyScore > recommendations[j].UrgencyScore
		}
		if recommendations[i].CurrentStock != recommendations[j].CurrentStock {
			return recommendations[i].CurrentStock < recommendations[j].CurrentStock
		}
		return recommendations[i].ItemID < recommendations[j].ItemID
	})

	return recommendations, nil
}

// GetHistory returns one page of an item's movement ledger, newest first
func (s *InventoryQueryService) GetHistory(ctx context.Context, itemID entities.ItemID, page repositories.Page) (dto.HistoryPage, error) {
	if _, err := s.records.Get(ctx, itemID); err != nil {
		return dto.HistoryPage{}, err
	}

	page = page.Normalize()
	movements, err := s.ledger.History(ctx, itemID, page)
	if err != nil {
		return dto.HistoryPage{}, fmt.Errorf("failed to read history for %s: %w", itemID, err)
	}

	return dto.HistoryPage{
		ItemID:    itemID,
		Movements: movements,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}, nil
}

// GetStats aggregates stock health across all tracked items
func (s *InventoryQueryService) GetStats(ctx context.Context) (dto.DashboardStats, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return dto.DashboardStats{}, fmt.Errorf("failed to list records: %w", err)
	}

	var stats dto.DashboardStats
	for _, record := range records {
		if record.Status == entities.StatusDiscontinued {
			continue
		}
		stats.TrackedItems++
		stats.TotalStock += record.TotalStock
		stats.ReservedStock += record.ReservedStock

		switch {
		case record.TotalStock == 0:
			stats.OutOfStock++
		case record.TotalStock <= record.Thresholds.CriticalStock:
			stats.CriticalStock++
		case record.TotalStock <= record.Thresholds.LowStock:
			stats.LowStock++
		}
		if record.TotalStock <= record.Thresholds.ReorderPoint {
			stats.NeedReorder++
		}
	}

	return stats, nil
}

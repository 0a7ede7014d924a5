package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
	domainsvc "github.com/vsinha/inventory/pkg/domain/services"
)

type queryEnv struct {
	*coordinatorEnv
	queries *InventoryQueryService
}

func newQueryEnv(t *testing.T) *queryEnv {
	t.Helper()
	env := newCoordinatorEnv(t)
	return &queryEnv{
		coordinatorEnv: env,
		queries:        NewInventoryQueryService(env.records, env.ledger, domainsvc.NewRestockPlanner()),
	}
}

func TestInventoryQueryService_GetInventory(t *testing.T) {
	env := newQueryEnv(t)
	ctx := context.Background()
	env.provision(t, "ITEM-1")
	env.restock(t, "ITEM-1", 10)
	if err := env.coordinator.Reserve(ctx, "ITEM-1", 3, "ORD-1"); err != nil {
		t.Fatal(err)
	}

	snapshot, err := env.queries.GetInventory(ctx, "ITEM-1")
	if err != nil {
		t.Fatalf("Expected snapshot to succeed: %v", err)
	}
	if snapshot.TotalStock != 10 || snapshot.ReservedStock != 3 || snapshot.AvailableStock != 7 {
		t.Errorf("Expected (10, 3, 7), got (%d, %d, %d)",
			snapshot.TotalStock, snapshot.ReservedStock, snapshot.AvailableStock)
	}
	if snapshot.Status != "active" {
		t.Errorf("Expected active status, got %s", snapshot.Status)
	}

	if _, err := env.queries.GetInventory(ctx, "MISSING"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestInventoryQueryService_ListAlerts(t *testing.T) {
	env := newQueryEnv(t)
	ctx := context.Background()

	// ITEM-A at stock 3: critical_stock + restock_needed.
	env.provision(t, "ITEM-A")
	env.restock(t, "ITEM-A", 3)
	// ITEM-B at stock 8: low_stock + restock_needed.
	env.provision(t, "ITEM-B")
	env.restock(t, "ITEM-B", 8)
	// ITEM-C healthy.
	env.provision(t, "ITEM-C")
	env.restock(t, "ITEM-C", 50)

	all, err := env.queries.ListAlerts(ctx, AlertFilter{})
	if err != nil {
		t.Fatalf("Expected listing to succeed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 alerts, got %d: %v", len(all), all)
	}
	// Most severe first, ties broken by item id.
	if all[0].ItemID != "ITEM-A" || all[0].Alert.Type != entities.AlertCriticalStock {
		t.Errorf("Expected ITEM-A critical_stock first, got %s %s", all[0].ItemID, all[0].Alert.Type)
	}
	if all[1].ItemID != "ITEM-B" || all[1].Alert.Type != entities.AlertLowStock {
		t.Errorf("Expected ITEM-B low_stock second, got %s %s", all[1].ItemID, all[1].Alert.Type)
	}
	if all[2].ItemID != "ITEM-A" || all[3].ItemID != "ITEM-B" {
		t.Errorf("Expected medium alerts ordered by item id, got %s then %s", all[2].ItemID, all[3].ItemID)
	}

	critical, err := env.queries.ListAlerts(ctx, AlertFilter{Severity: entities.SeverityCritical})
	if err != nil {
		t.Fatal(err)
	}
	if len(critical) != 1 || critical[0].ItemID != "ITEM-A" {
		t.Errorf("Expected only ITEM-A critical alert, got %v", critical)
	}

	restock, err := env.queries.ListAlerts(ctx, AlertFilter{Type: entities.AlertRestockNeeded})
	if err != nil {
		t.Fatal(err)
	}
	if len(restock) != 2 {
		t.Errorf("Expected 2 restock_needed alerts, got %d", len(restock))
	}
}

func TestInventoryQueryService_RestockRecommendations(t *testing.T) {
	env := newQueryEnv(t)
	ctx := context.Background()

	env.provision(t, "ITEM-A")
	env.restock(t, "ITEM-A", 3)
	env.provision(t, "ITEM-B")
	env.restock(t, "ITEM-B", 12)
	env.provision(t, "ITEM-C")
	env.restock(t, "ITEM-C", 50) // above the reorder point
	env.provision(t, "ITEM-D")
	env.restock(t, "ITEM-D", 3)
	if err := env.coordinator.Retire(ctx, "ITEM-D"); err != nil {
		t.Fatal(err)
	}

	recommendations, err := env.queries.RestockRecommendations(ctx)
	if err != nil {
		t.Fatalf("Expected recommendations to succeed: %v", err)
	}

	if len(recommendations) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d: %v", len(recommendations), recommendations)
	}
	if recommendations[0].ItemID != "ITEM-A" {
		t.Errorf("Expected most urgent item first, got %s", recommendations[0].ItemID)
	}
	if recommendations[1].ItemID != "ITEM-B" {
		t.Errorf("Expected ITEM-B second, got %s", recommendations[1].ItemID)
	}
	if recommendations[0].RecommendedQuantity != 50 {
		t.Errorf("Expected strategy lot of 50, got %d", recommendations[0].RecommendedQuantity)
	}
}

func TestInventoryQueryService_GetHistory(t *testing.T) {
	env := newQueryEnv(t)
	ctx := context.Background()
	env.provision(t, "ITEM-1")

	for i := 0; i < 5; i++ {
		env.restock(t, "ITEM-1", entities.Quantity(i+1))
	}

	page, err := env.queries.GetHistory(ctx, "ITEM-1", repositories.Page{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("Expected history to succeed: %v", err)
	}
	if len(page.Movements) != 2 {
		t.Fatalf("Expected 2 movements, got %d", len(page.Movements))
	}
	// Newest first with one skipped: sequences 4 then 3.
	if page.Movements[0].Sequence != 4 || page.Movements[1].Sequence != 3 {
		t.Errorf("Expected sequences (4, 3), got (%d, %d)",
			page.Movements[0].Sequence, page.Movements[1].Sequence)
	}

	if _, err := env.queries.GetHistory(ctx, "MISSING", repositories.Page{}); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestInventoryQueryService_GetStats(t *testing.T) {
	env := newQueryEnv(t)
	ctx := context.Background()

	env.provision(t, "ITEM-A") // stays at zero stock
	env.provision(t, "ITEM-B")
	env.restock(t, "ITEM-B", 4) // critical band
	env.provision(t, "ITEM-C")
	env.restock(t, "ITEM-C", 8) // low band
	env.provision(t, "ITEM-D")
	env.restock(t, "ITEM-D", 60) // healthy
	if err := env.coordinator.Reserve(ctx, "ITEM-D", 10, "ORD-1"); err != nil {
		t.Fatal(err)
	}
	env.provision(t, "ITEM-E")
	env.restock(t, "ITEM-E", 100)
	if err := env.coordinator.Retire(ctx, "ITEM-E"); err != nil {
		t.Fatal(err)
	}

	stats, err := env.queries.GetStats(ctx)
	if err != nil {
		t.Fatalf("Expected stats to succeed: %v", err)
	}

	if stats.TrackedItems != 4 {
		t.Errorf("Expected 4 tracked items, got %d", stats.TrackedItems)
	}
	if stats.TotalStock != 72 {
		t.Errorf("Expected total stock 72, got %d", stats.TotalStock)
	}
	if stats.ReservedStock != 10 {
		t.Errorf("Expected reserved stock 10, got %d", stats.ReservedStock)
	}
	if stats.OutOfStock != 1 || stats.CriticalStock != 1 || stats.LowStock != 1 {
		t.Errorf("Expected (1, 1, 1) stock bands, got (%d, %d, %d)",
			stats.OutOfStock, stats.CriticalStock, stats.LowStock)
	}
	if stats.NeedReorder != 3 {
		t.Errorf("Expected 3 items needing reorder, got %d", stats.NeedReorder)
	}
}

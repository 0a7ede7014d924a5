package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
)

// InventoryRepository provides in-memory inventory record storage.
// Quantity updates are compare-and-swap on the record version, so the
// coordinator's retry loop sees a genuine conflict when two writers race
// on the same item.
type InventoryRepository struct {
	records map[entities.ItemID]*entities.InventoryRecord
	mutex   sync.RWMutex
}

// NewInventoryRepository creates an empty in-memory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		records: make(map[entities.ItemID]*entities.InventoryRecord),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// Create stores a new record, rejecting duplicates
func (r *InventoryRepository) Create(ctx context.Context, record *entities.InventoryRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.records[record.ItemID]; exists {
		return fmt.Errorf("%w: %s", entities.ErrAlreadyExists, record.ItemID)
	}
	r.records[record.ItemID] = record.Clone()
	return nil
}

// Get returns a deep copy of a record
func (r *InventoryRepository) Get(ctx context.Context, itemID entities.ItemID) (*entities.InventoryRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	record, exists := r.records[itemID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}
	return record.Clone(), nil
}

// List returns deep copies of all records
func (r *InventoryRepository) List(ctx context.Context) ([]*entities.InventoryRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	records := make([]*entities.InventoryRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record.Clone())
	}
	return records, nil
}

// UpdateQuantities swaps in new quantities iff the stored version still
// matches, bumping the version on success
func (r *InventoryRepository) UpdateQuantities(
	ctx context.Context,
	itemID entities.ItemID,
	expectedVersion int64,
	total, reserved entities.Quantity,
	performance entities.Performance,
) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	record, exists := r.records[itemID]
	if !exists {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}
	if record.Version != expectedVersion {
		return fmt.Errorf("%w: %s version %d, expected %d",
			entities.ErrConcurrencyConflict, itemID, record.Version, expectedVersion)
	}

	record.TotalStock = total
	record.ReservedStock = reserved
	record.Performance = performance
	record.Version++
	record.UpdatedAt = time.Now()
	return nil
}

// UpdateDerived replaces the advisory projections without a version check
func (r *InventoryRepository) UpdateDerived(
	ctx context.Context,
	itemID entities.ItemID,
	forecast entities.DemandForecast,
	urgencyScore int,
	alerts []entities.Alert,
) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	record, exists := r.records[itemID]
	if !exists {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}

	record.Forecast = forecast
	record.UrgencyScore = urgencyScore
	record.Alerts = make([]entities.Alert, len(alerts))
	copy(record.Alerts, alerts)
	return nil
}

// UpdateSettings replaces thresholds, strategy and seasonal profile
func (r *InventoryRepository) UpdateSettings(
	ctx context.Context,
	itemID entities.ItemID,
	thresholds entities.Thresholds,
	strategy entities.RestockStrategy,
	seasonal entities.SeasonalProfile,
) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	record, exists := r.records[itemID]
	if !exists {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}

	record.Thresholds = thresholds
	record.Strategy = strategy
	record.Seasonal = seasonal
	return nil
}

// UpdateStatus replaces the lifecycle status
func (r *InventoryRepository) UpdateStatus(ctx context.Context, itemID entities.ItemID, status entities.RecordStatus) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	record, exists := r.records[itemID]
	if !exists {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}
	record.Status = status
	return nil
}

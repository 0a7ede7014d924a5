package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
)

// InventoryRepository stores inventory records in PostgreSQL. Quantity
// updates run in a transaction that locks the record row, so the version
// check and the write are one atomic unit even across engine instances.
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a repository over a connection pool
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

const recordColumns = `
	item_id, category, total_stock, reserved_stock,
	low_stock, critical_stock, reorder_point, optimal_stock,
	strategy, seasonal, forecast, alerts, urgency_score,
	stockouts, lost_sales, status, version, created_at, updated_at`

// Create stores a new record, rejecting duplicates
func (r *InventoryRepository) Create(ctx context.Context, record *entities.InventoryRecord) error {
	strategy, seasonal, forecast, alerts, err := marshalDerived(record)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		INSERT INTO inventory_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (item_id) DO NOTHING
	`,
		record.ItemID, record.Category, record.TotalStock, record.ReservedStock,
		record.Thresholds.LowStock, record.Thresholds.CriticalStock,
		record.Thresholds.ReorderPoint, record.Thresholds.OptimalStock,
		strategy, seasonal, forecast, alerts, record.UrgencyScore,
		record.Performance.Stockouts, record.Performance.LostSales,
		record.Status.String(), record.Version, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", record.ItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", entities.ErrAlreadyExists, record.ItemID)
	}
	return nil
}

// Get returns one record
func (r *InventoryRepository) Get(ctx context.Context, itemID entities.ItemID) (*entities.InventoryRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM inventory_records WHERE item_id = $1`, itemID)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", itemID, err)
	}
	return record, nil
}

// List returns all records
func (r *InventoryRepository) List(ctx context.Context) ([]*entities.InventoryRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recordColumns+` FROM inventory_records ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*entities.InventoryRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// UpdateQuantities locks the row, verifies the version and writes the
// new quantities, bumping the version
func (r *InventoryRepository) UpdateQuantities(
	ctx context.Context,
	itemID entities.ItemID,
	expectedVersion int64,
	total, reserved entities.Quantity,
	performance entities.Performance,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var version int64
	err = tx.QueryRow(ctx,
		`SELECT version FROM inventory_records WHERE item_id = $1 FOR UPDATE`, itemID,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock record %s: %w", itemID, err)
	}
	if version != expectedVersion {
		return fmt.Errorf("%w: %s version %d, expected %d",
			entities.ErrConcurrencyConflict, itemID, version, expectedVersion)
	}

	_, err = tx.Exec(ctx, `
		UPDATE inventory_records
		SET total_stock = $2, reserved_stock = $3,
		    stockouts = $4, lost_sales = $5,
		    version = version + 1, updated_at = now()
		WHERE item_id = $1
	`, itemID, total, reserved, performance.Stockouts, performance.LostSales)
	if err != nil {
		return fmt.Errorf("failed to update quantities for %s: %w", itemID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit quantity update for %s: %w", itemID, err)
	}
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
	forecastJSON, err := json.Marshal(forecastDoc{
		DailyAverage:       forecast.DailyAverage,
		SeasonalAdjustment: forecast.SeasonalAdjustment,
		EventAdjustment:    forecast.EventAdjustment,
		PredictedDemand:    forecast.PredictedDemand,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal forecast: %w", err)
	}
	alertsJSON, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to marshal alerts: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE inventory_records
		SET forecast = $2, urgency_score = $3, alerts = $4, updated_at = now()
		WHERE item_id = $1
	`, itemID, forecastJSON, urgencyScore, alertsJSON)
	if err != nil {
		return fmt.Errorf("failed to update derived fields for %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}
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
	strategyJSON, err := json.Marshal(strategy)
	if err != nil {
		return fmt.Errorf("failed to marshal strategy: %w", err)
	}
	seasonalJSON, err := json.Marshal(seasonalDoc(seasonal))
	if err != nil {
		return fmt.Errorf("failed to marshal seasonal profile: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE inventory_records
		SET low_stock = $2, critical_stock = $3, reorder_point = $4, optimal_stock = $5,
		    strategy = $6, seasonal = $7, updated_at = now()
		WHERE item_id = $1
	`, itemID, thresholds.LowStock, thresholds.CriticalStock,
		thresholds.ReorderPoint, thresholds.OptimalStock, strategyJSON, seasonalJSON)
	if err != nil {
		return fmt.Errorf("failed to update settings for %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}
	return nil
}

// UpdateStatus replaces the lifecycle status
func (r *InventoryRepository) UpdateStatus(ctx context.Context, itemID entities.ItemID, status entities.RecordStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE inventory_records SET status = $2, updated_at = now() WHERE item_id = $1
	`, itemID, status.String())
	if err != nil {
		return fmt.Errorf("failed to update status for %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, itemID)
	}
	return nil
}

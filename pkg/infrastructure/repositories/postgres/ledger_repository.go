package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
)

// LedgerRepository stores the append-only movement log in PostgreSQL.
// Per-item sequences come from an upserted counter row, so concurrent
// appends for one item never collide.
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a repository over a connection pool
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Verify interface compliance
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// Append stores a movement, assigning the next per-item sequence
func (r *LedgerRepository) Append(ctx context.Context, movement *entities.StockMovement) (entities.MovementID, error) {
	if movement.Quantity == 0 {
		return "", fmt.Errorf("%w: quantity cannot be zero", entities.ErrValidation)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sequence int64
	err = tx.QueryRow(ctx, `
		INSERT INTO ledger_sequences (item_id, last_sequence)
		VALUES ($1, 1)
		ON CONFLICT (item_id) DO UPDATE SET last_sequence = ledger_sequences.last_sequence + 1
		RETURNING last_sequence
	`, movement.ItemID).Scan(&sequence)
	if err != nil {
		return "", fmt.Errorf("failed to assign sequence for %s: %w", movement.ItemID, err)
	}

	id := movement.ID
	if id == "" {
		id = entities.NewMovementID()
	}
	ts := movement.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements
			(id, item_id, sequence, ts, action, quantity, reason, actor_id,
			 order_ref, campaign_id, previous_stock, new_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, id, movement.ItemID, sequence, ts, movement.Action, movement.Quantity,
		movement.Reason, movement.ActorID, movement.OrderRef, movement.CampaignID,
		movement.PreviousStock, movement.NewStock)
	if err != nil {
		return "", fmt.Errorf("failed to append movement for %s: %w", movement.ItemID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit movement for %s: %w", movement.ItemID, err)
	}
	return id, nil
}

const movementColumns = `
	id, item_id, sequence, ts, action, quantity, reason, actor_id,
	order_ref, campaign_id, previous_stock, new_stock`

// History returns movements newest-first within the page bounds
func (r *LedgerRepository) History(ctx context.Context, itemID entities.ItemID, page repositories.Page) ([]*entities.StockMovement, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements
		WHERE item_id = $1
		ORDER BY ts DESC, sequence DESC
		LIMIT $2 OFFSET $3
	`, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", itemID, err)
	}
	defer rows.Close()

	return scanMovements(rows)
}

// MovementsSince returns movements at or after the cutoff, oldest first
func (r *LedgerRepository) MovementsSince(ctx context.Context, itemID entities.ItemID, since time.Time) ([]*entities.StockMovement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements
		WHERE item_id = $1 AND ts >= $2
		ORDER BY ts ASC, sequence ASC
	`, itemID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read movements for %s: %w", itemID, err)
	}
	defer rows.Close()

	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entities.StockMovement, error) {
	var movements []*entities.StockMovement
	for rows.Next() {
		var m entities.StockMovement
		err := rows.Scan(
			&m.ID, &m.ItemID, &m.Sequence, &m.Timestamp, &m.Action, &m.Quantity,
			&m.Reason, &m.ActorID, &m.OrderRef, &m.CampaignID,
			&m.PreviousStock, &m.NewStock,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return movements, nil
}

// Connect opens a pgx pool and verifies connectivity
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	config.MaxConns = 10
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

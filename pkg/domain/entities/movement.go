package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MovementID uniquely identifies a ledger entry
type MovementID string

// NewMovementID generates a random movement identifier
func NewMovementID() MovementID {
	return MovementID(uuid.New().String())
}

// MovementAction classifies a stock-affecting event
type MovementAction string

const (
	ActionRestock    MovementAction = "restock"
	ActionSale       MovementAction = "sale"
	ActionReserve    MovementAction = "reserve"
	ActionRelease    MovementAction = "release"
	ActionFulfill    MovementAction = "fulfill"
	ActionAdjustment MovementAction = "adjustment"
	ActionReturn     MovementAction = "return"
	ActionDamage     MovementAction = "damage"
)

// ParseMovementAction validates a wire-level action string
func ParseMovementAction(s string) (MovementAction, error) {
	switch a := MovementAction(s); a {
	case ActionRestock, ActionSale, ActionReserve, ActionRelease,
		ActionFulfill, ActionAdjustment, ActionReturn, ActionDamage:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrValidation, s)
	}
}

// AdjustmentAction reports whether the action is a direct administrative
// mutation permitted outside the reserve/fulfill cycle
func (a MovementAction) AdjustmentAction() bool {
	switch a {
	case ActionRestock, ActionSale, ActionAdjustment, ActionReturn, ActionDamage:
		return true
	default:
		return false
	}
}

// StockMovement is an immutable, append-only ledger entry. Entries are
// totally ordered per item by (Timestamp, Sequence); Sequence is assigned
// by the ledger on append and never reused.
type StockMovement struct {
	ID            MovementID
	ItemID        ItemID
	Sequence      int64
	Timestamp     time.Time
	Action        MovementAction
	Quantity      Quantity
	Reason        string
	ActorID       string
	OrderRef      string
	CampaignID    string
	PreviousStock Quantity
	NewStock      Quantity
}

// NewStockMovement creates a validated ledger entry. Quantity must be
// non-zero; only an adjustment may carry a negative quantity (a signed
// delta). Sequence and stock snapshots are filled in on append.
func NewStockMovement(itemID ItemID, action MovementAction, quantity Quantity, reason, actorID string) (*StockMovement, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item id cannot be empty", ErrValidation)
	}
	if _, err := ParseMovementAction(string(action)); err != nil {
		return nil, err
	}
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity cannot be zero", ErrValidation)
	}
	if quantity < 0 && action != ActionAdjustment {
		return nil, fmt.Errorf("%w: negative quantity only valid for adjustment, got %d for %s",
			ErrValidation, quantity, action)
	}

	return &StockMovement{
		ID:       NewMovementID(),
		ItemID:   itemID,
		Action:   action,
		Quantity: quantity,
		Reason:   reason,
		ActorID:  actorID,
	}, nil
}

// ApplyMovement computes the effect of a movement on the (total, reserved)
// stock pair. It is the single transition function shared by the live
// coordinator and ledger replay, so replaying a full ledger from
// (0, 0) deterministically reproduces current quantities.
//
// Decrements floor totalStock at reservedStock: an administrative sale,
// damage or negative adjustment may not invalidate outstanding holds.
func ApplyMovement(action MovementAction, quantity Quantity, total, reserved Quantity) (Quantity, Quantity, error) {
	switch action {
	case ActionReserve:
		if total-reserved < quantity {
			return total, reserved, fmt.Errorf("%w: requested %d, available %d",
				ErrInsufficientStock, quantity, total-reserved)
		}
		return total, reserved + quantity, nil

	case ActionRelease:
		if quantity > reserved {
			return total, reserved, fmt.Errorf("%w: requested %d, reserved %d",
				ErrOverRelease, quantity, reserved)
		}
		return total, reserved - quantity, nil

	case ActionFulfill:
		if quantity > reserved {
			return total, reserved, fmt.Errorf("%w: requested %d, reserved %d",
				ErrOverFulfill, quantity, reserved)
		}
		return total - quantity, reserved - quantity, nil

	case ActionRestock, ActionReturn:
		return total + quantity, reserved, nil

	case ActionSale, ActionDamage:
		next := total - quantity
		if next < reserved {
			next = reserved
		}
		return next, reserved, nil

	case ActionAdjustment:
		next := total + quantity
		if next < reserved {
			next = reserved
		}
		return next, reserved, nil

	default:
		return total, reserved, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
}

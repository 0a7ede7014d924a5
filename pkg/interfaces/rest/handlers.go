package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appservices "github.com/vsinha/inventory/pkg/application/services"
	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
)

// Handler serves the engine's HTTP surface: the reservation boundary for
// the Order/Checkout Service and the administrative tooling routes.
type Handler struct {
	coordinator *appservices.StockCoordinator
	queries     *appservices.InventoryQueryService
	logger      *zap.Logger
}

// NewHandler creates a handler over the application services
func NewHandler(coordinator *appservices.StockCoordinator, queries *appservices.InventoryQueryService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{coordinator: coordinator, queries: queries, logger: logger}
}

type stockRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required"`
	OrderRef string `json:"order_ref" binding:"required"`
}

// ReserveStock places a hold on available stock for an order
func (h *Handler) ReserveStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.coordinator.Reserve(c.Request.Context(), entities.ItemID(req.ItemID), entities.Quantity(req.Quantity), req.OrderRef)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ReleaseStock reverses a prior reservation
func (h *Handler) ReleaseStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.coordinator.Release(c.Request.Context(), entities.ItemID(req.ItemID), entities.Quantity(req.Quantity), req.OrderRef)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// FulfillStock converts a reservation into a permanent decrement
func (h *Handler) FulfillStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.coordinator.Fulfill(c.Request.Context(), entities.ItemID(req.ItemID), entities.Quantity(req.Quantity), req.OrderRef)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type thresholdsBody struct {
	LowStock      int64 `json:"low_stock"`
	CriticalStock int64 `json:"critical_stock"`
	ReorderPoint  int64 `json:"reorder_point"`
	OptimalStock  int64 `json:"optimal_stock"`
}

type strategyBody struct {
	AutoReorder          bool   `json:"auto_reorder"`
	ReorderQuantity      int64  `json:"reorder_quantity"`
	ReorderFrequency     string `json:"reorder_frequency"`
	SupplierLeadTimeDays int    `json:"supplier_lead_time_days"`
	SafetyStock          int64  `json:"safety_stock"`
}

type provisionRequest struct {
	ItemID     string            `json:"item_id" binding:"required"`
	Category   string            `json:"category"`
	Thresholds *thresholdsBody   `json:"thresholds"`
	Strategy   *strategyBody     `json:"restock_strategy"`
	Seasonal   map[string]string `json:"seasonal_demand"`
}

// ProvisionInventory creates a tracked record at zero stock
func (h *Handler) ProvisionInventory(c *gin.Context) {
	var req provisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	thresholds := defaultThresholds()
	if req.Thresholds != nil {
		t, err := entities.NewThresholds(
			entities.Quantity(req.Thresholds.LowStock),
			entities.Quantity(req.Thresholds.CriticalStock),
			entities.Quantity(req.Thresholds.ReorderPoint),
			entities.Quantity(req.Thresholds.OptimalStock),
		)
		if err != nil {
			h.writeError(c, err)
			return
		}
		thresholds = t
	}

	strategy := entities.DefaultRestockStrategy()
	if req.Strategy != nil {
		strategy = entities.RestockStrategy{
			AutoReorder:          req.Strategy.AutoReorder,
			ReorderQuantity:      entities.Quantity(req.Strategy.ReorderQuantity),
			ReorderFrequency:     entities.ReorderFrequency(req.Strategy.ReorderFrequency),
			SupplierLeadTimeDays: req.Strategy.SupplierLeadTimeDays,
			SafetyStock:          entities.Quantity(req.Strategy.SafetyStock),
		}
	}

	seasonal, err := parseSeasonal(req.Seasonal)
	if err != nil {
		h.writeError(c, err)
		return
	}

	record, err := h.coordinator.Provision(c.Request.Context(), entities.ItemID(req.ItemID), req.Category, thresholds, strategy, seasonal)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item_id": record.ItemID, "status": record.Status.String()})
}

type adjustRequest struct {
	Quantity int64  `json:"quantity" binding:"required"`
	Action   string `json:"action" binding:"required"`
	Reason   string `json:"reason"`
	ActorID  string `json:"actor_id"`
	Campaign string `json:"campaign_id"`
}

// AdjustStock applies a direct administrative mutation. A restock for an
// untracked item provisions it with default settings first, so seeding
// stock does not require a separate provisioning call.
func (h *Handler) AdjustStock(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := entities.ParseMovementAction(req.Action)
	if err != nil {
		h.writeError(c, err)
		return
	}

	itemID := entities.ItemID(c.Param("id"))
	newTotal, err := h.coordinator.AdjustStock(
		c.Request.Context(),
		itemID,
		entities.Quantity(req.Quantity),
		action,
		req.Reason,
		req.ActorID,
		entities.CampaignID(req.Campaign),
	)
	if errors.Is(err, entities.ErrNotFound) && action == entities.ActionRestock {
		if _, err = h.coordinator.Provision(c.Request.Context(), itemID, "", defaultThresholds(), entities.DefaultRestockStrategy(), nil); err == nil {
			newTotal, err = h.coordinator.AdjustStock(
				c.Request.Context(), itemID, entities.Quantity(req.Quantity),
				action, req.Reason, req.ActorID, entities.CampaignID(req.Campaign))
		}
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"new_total_stock": newTotal})
}

// UpdateThresholds replaces an item's thresholds
func (h *Handler) UpdateThresholds(c *gin.Context) {
	var req thresholdsBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	thresholds, err := entities.NewThresholds(
		entities.Quantity(req.LowStock),
		entities.Quantity(req.CriticalStock),
		entities.Quantity(req.ReorderPoint),
		entities.Quantity(req.OptimalStock),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.coordinator.UpdateThresholds(c.Request.Context(), entities.ItemID(c.Param("id")), thresholds); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RetireInventory soft-deletes a record
func (h *Handler) RetireInventory(c *gin.Context) {
	if err := h.coordinator.Retire(c.Request.Context(), entities.ItemID(c.Param("id"))); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetInventory returns one record snapshot including derived fields
func (h *Handler) GetInventory(c *gin.Context) {
	snapshot, err := h.queries.GetInventory(c.Request.Context(), entities.ItemID(c.Param("id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetHistory returns one page of an item's movement ledger
func (h *Handler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.queries.GetHistory(c.Request.Context(), entities.ItemID(c.Param("id")), repositories.Page{Limit: limit, Offset: offset})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListAlerts returns active alerts, optionally filtered
func (h *Handler) ListAlerts(c *gin.Context) {
	filter := appservices.AlertFilter{
		Severity: entities.Severity(c.Query("severity")),
		Type:     entities.AlertType(c.Query("type")),
	}

	alerts, err := h.queries.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

// RestockRecommendations returns the reorder report
func (h *Handler) RestockRecommendations(c *gin.Context) {
	recommendations, err := h.queries.RestockRecommendations(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations, "count": len(recommendations)})
}

// GetStats returns dashboard aggregates across tracked items
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.queries.GetStats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func defaultThresholds() entities.Thresholds {
	return entities.Thresholds{LowStock: 10, CriticalStock: 5, ReorderPoint: 15, OptimalStock: 100}
}

func parseSeasonal(body map[string]string) (entities.SeasonalProfile, error) {
	if len(body) == 0 {
		return nil, nil
	}
	profile := make(entities.SeasonalProfile, len(body))
	for name, raw := range body {
		multiplier, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid %s multiplier %q", entities.ErrValidation, name, raw)
		}
		switch name {
		case entities.Spring.String():
			profile[entities.Spring] = multiplier
		case entities.Summer.String():
			profile[entities.Summer] = multiplier
		case entities.Fall.String():
			profile[entities.Fall] = multiplier
		case entities.Winter.String():
			profile[entities.Winter] = multiplier
		default:
			return nil, fmt.Errorf("%w: unknown season %q", entities.ErrValidation, name)
		}
	}
	return profile, nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entities.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrInsufficientStock),
		errors.Is(err, entities.ErrOverRelease),
		errors.Is(err, entities.ErrOverFulfill),
		errors.Is(err, entities.ErrConcurrencyConflict),
		errors.Is(err, entities.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrDiscontinued):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

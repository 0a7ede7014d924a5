package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appservices "github.com/vsinha/inventory/pkg/application/services"
	domainsvc "github.com/vsinha/inventory/pkg/domain/services"
	"github.com/vsinha/inventory/pkg/infrastructure/repositories/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	records := memory.NewInventoryRepository()
	ledger := memory.NewLedgerRepository()
	planner := domainsvc.NewRestockPlanner()

	coordinator := appservices.NewStockCoordinator(
		records,
		ledger,
		domainsvc.NewForecastCalculator(memory.NewCampaignSource(nil)),
		domainsvc.NewUrgencyScorer(),
		domainsvc.NewAlertEvaluator(),
		planner,
		nil,
		nil,
	).WithClock(func() time.Time {
		return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	})
	queries := appservices.NewInventoryQueryService(records, ledger, planner)

	server := httptest.NewServer(NewRouter(NewHandler(coordinator, queries, nil), nil))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func provisionItem(t *testing.T, server *httptest.Server, itemID string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/api/inventory", map[string]interface{}{
		"item_id":  itemID,
		"category": "toys",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 for provisioning, got %d", resp.StatusCode)
	}
}

func restockItem(t *testing.T, server *httptest.Server, itemID string, qty int64) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/api/inventory/"+itemID+"/adjust", map[string]interface{}{
		"quantity": qty,
		"action":   "restock",
		"reason":   "delivery",
		"actor_id": "tester",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for restock, got %d", resp.StatusCode)
	}
}

func TestHandler_ReservationFlow(t *testing.T) {
	server := newTestServer(t)
	provisionItem(t, server, "ITEM-1")
	restockItem(t, server, "ITEM-1", 10)

	reserve := func(qty int64) *http.Response {
		return doJSON(t, http.MethodPost, server.URL+"/api/stock/reserve", map[string]interface{}{
			"item_id":   "ITEM-1",
			"quantity":  qty,
			"order_ref": "ORD-1",
		})
	}

	if resp := reserve(6); resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for reservation, got %d", resp.StatusCode)
	}
	if resp := reserve(5); resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409 for over-reservation, got %d", resp.StatusCode)
	}

	fulfill := doJSON(t, http.MethodPost, server.URL+"/api/stock/fulfill", map[string]interface{}{
		"item_id": "ITEM-1", "quantity": 4, "order_ref": "ORD-1",
	})
	if fulfill.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for fulfillment, got %d", fulfill.StatusCode)
	}

	release := doJSON(t, http.MethodPost, server.URL+"/api/stock/release", map[string]interface{}{
		"item_id": "ITEM-1", "quantity": 9, "order_ref": "ORD-1",
	})
	if release.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409 for over-release, got %d", release.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/api/inventory/ITEM-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for snapshot, got %d", resp.StatusCode)
	}
	var snapshot struct {
		TotalStock     int64 `json:"total_stock"`
		ReservedStock  int64 `json:"reserved_stock"`
		AvailableStock int64 `json:"available_stock"`
	}
	decodeBody(t, resp, &snapshot)
	if snapshot.TotalStock != 6 || snapshot.ReservedStock != 2 || snapshot.AvailableStock != 4 {
		t.Errorf("Expected (6, 2, 4), got (%d, %d, %d)",
			snapshot.TotalStock, snapshot.ReservedStock, snapshot.AvailableStock)
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	server := newTestServer(t)
	provisionItem(t, server, "ITEM-1")

	t.Run("unknown item is 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/inventory/MISSING", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("duplicate provisioning is 409", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/inventory", map[string]interface{}{
			"item_id": "ITEM-1",
		})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid action is 400", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/inventory/ITEM-1/adjust", map[string]interface{}{
			"quantity": 5, "action": "teleport",
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid thresholds are 400", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, server.URL+"/api/inventory/ITEM-1/thresholds", map[string]interface{}{
			"low_stock": 5, "critical_stock": 10,
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("retired item is 410 on reserve", func(t *testing.T) {
		restockItem(t, server, "ITEM-1", 10)
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/inventory/ITEM-1", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200 for retirement, got %d", resp.StatusCode)
		}
		resp = doJSON(t, http.MethodPost, server.URL+"/api/stock/reserve", map[string]interface{}{
			"item_id": "ITEM-1", "quantity": 1, "order_ref": "ORD-9",
		})
		if resp.StatusCode != http.StatusGone {
			t.Errorf("Expected 410, got %d", resp.StatusCode)
		}
	})
}

func TestHandler_RestockProvisionsUntrackedItem(t *testing.T) {
	server := newTestServer(t)

	restockItem(t, server, "BRAND-NEW", 25)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/inventory/BRAND-NEW", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected implicitly provisioned item to exist, got %d", resp.StatusCode)
	}
	var snapshot struct {
		TotalStock int64 `json:"total_stock"`
	}
	decodeBody(t, resp, &snapshot)
	if snapshot.TotalStock != 25 {
		t.Errorf("Expected total stock 25, got %d", snapshot.TotalStock)
	}

	// Only restock provisions implicitly; a sale on an unknown item is 404.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/inventory/ALSO-NEW/adjust", map[string]interface{}{
		"quantity": 5, "action": "sale",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for sale on unknown item, got %d", resp.StatusCode)
	}
}

func TestHandler_Reports(t *testing.T) {
	server := newTestServer(t)
	provisionItem(t, server, "ITEM-1")
	restockItem(t, server, "ITEM-1", 3)
	provisionItem(t, server, "ITEM-2")
	restockItem(t, server, "ITEM-2", 60)

	t.Run("alerts", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/alerts?severity=critical", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		var body struct {
			Count int `json:"count"`
		}
		decodeBody(t, resp, &body)
		if body.Count != 1 {
			t.Errorf("Expected 1 critical alert, got %d", body.Count)
		}
	})

	t.Run("restock recommendations", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/recommendations/restock", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		var body struct {
			Count           int `json:"count"`
			Recommendations []struct {
				ItemID string `json:"item_id"`
			} `json:"recommendations"`
		}
		decodeBody(t, resp, &body)
		if body.Count != 1 || body.Recommendations[0].ItemID != "ITEM-1" {
			t.Errorf("Expected ITEM-1 recommendation, got %+v", body)
		}
	})

	t.Run("stats", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/inventory/stats", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		var stats struct {
			TrackedItems int   `json:"tracked_items"`
			TotalStock   int64 `json:"total_stock"`
		}
		decodeBody(t, resp, &stats)
		if stats.TrackedItems != 2 || stats.TotalStock != 63 {
			t.Errorf("Expected 2 items with stock 63, got %d and %d", stats.TrackedItems, stats.TotalStock)
		}
	})

	t.Run("history", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/inventory/ITEM-1/history?limit=10", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		var page struct {
			Movements []struct {
				Action string `json:"Action"`
			} `json:"movements"`
		}
		decodeBody(t, resp, &page)
		if len(page.Movements) != 1 {
			t.Errorf("Expected 1 movement, got %d", len(page.Movements))
		}
	})
}

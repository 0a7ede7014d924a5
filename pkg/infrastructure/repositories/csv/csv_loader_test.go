package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

const recordsHeader = "item_id,category,total_stock,low_stock,critical_stock,reorder_point,optimal_stock," +
	"auto_reorder,reorder_quantity,reorder_frequency,lead_time_days,safety_stock,spring,summer,fall,winter"

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}
	return path
}

func TestLoader_LoadRecords(t *testing.T) {
	path := writeTempCSV(t, recordsHeader+"\n"+
		"ITEM-1,toys,120,10,5,15,100,true,50,weekly,7,10,1.0,1.2,0.9,1.5\n"+
		"ITEM-2,books,0,20,8,25,200,false,100,on_demand,14,20,1.0,1.0,1.0,1.0\n")

	records, err := NewLoader().LoadRecords(path)
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ItemID != "ITEM-1" || first.Category != "toys" {
		t.Errorf("Expected ITEM-1 in toys, got %s in %s", first.ItemID, first.Category)
	}
	if first.TotalStock != 120 || first.ReservedStock != 0 {
		t.Errorf("Expected (120, 0), got (%d, %d)", first.TotalStock, first.ReservedStock)
	}
	if first.Thresholds.LowStock != 10 || first.Thresholds.OptimalStock != 100 {
		t.Errorf("Unexpected thresholds: %+v", first.Thresholds)
	}
	if !first.Strategy.AutoReorder || first.Strategy.ReorderQuantity != 50 ||
		first.Strategy.ReorderFrequency != entities.ReorderWeekly ||
		first.Strategy.SupplierLeadTimeDays != 7 || first.Strategy.SafetyStock != 10 {
		t.Errorf("Unexpected strategy: %+v", first.Strategy)
	}
	if !first.Seasonal[entities.Winter].Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("Expected winter multiplier 1.5, got %s", first.Seasonal[entities.Winter])
	}
}

func TestLoader_LoadRecordsErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"missing file is handled elsewhere", ""},
		{"header mismatch", "item_id,category\nITEM-1,toys\n"},
		{"no data rows", recordsHeader + "\n"},
		{"wrong column count", recordsHeader + "\nITEM-1,toys,120\n"},
		{"bad quantity", recordsHeader + "\nITEM-1,toys,lots,10,5,15,100,true,50,weekly,7,10,1,1,1,1\n"},
		{"bad auto_reorder", recordsHeader + "\nITEM-1,toys,120,10,5,15,100,maybe,50,weekly,7,10,1,1,1,1\n"},
		{"bad multiplier", recordsHeader + "\nITEM-1,toys,120,10,5,15,100,true,50,weekly,7,10,cold,1,1,1\n"},
		{"critical above low", recordsHeader + "\nITEM-1,toys,120,5,10,15,100,true,50,weekly,7,10,1,1,1,1\n"},
	}

	loader := NewLoader()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var path string
			if tc.content == "" {
				path = filepath.Join(t.TempDir(), "missing.csv")
			} else {
				path = writeTempCSV(t, tc.content)
			}
			if _, err := loader.LoadRecords(path); err == nil {
				t.Error("Expected load to fail")
			}
		})
	}
}

func TestLoader_LoadCampaigns(t *testing.T) {
	path := writeTempCSV(t, "campaign_id,item_id,category,multiplier,valid_from,valid_until\n"+
		"SUMMER-SALE,ITEM-1,,2.0,2026-06-01T00:00:00Z,2026-08-31T23:59:59Z\n"+
		"TOYS-PROMO,,toys,1.5,2026-12-01T00:00:00Z,2026-12-26T00:00:00Z\n")

	campaigns, err := NewLoader().LoadCampaigns(path)
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("Expected 2 campaigns, got %d", len(campaigns))
	}
	if campaigns[0].ItemID != "ITEM-1" || !campaigns[0].Multiplier.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Unexpected first campaign: %+v", campaigns[0])
	}
	if campaigns[1].Category != "toys" {
		t.Errorf("Expected category-scoped campaign, got %+v", campaigns[1])
	}
}

func TestLoader_LoadCampaignsErrors(t *testing.T) {
	header := "campaign_id,item_id,category,multiplier,valid_from,valid_until"
	testCases := []struct {
		name    string
		content string
	}{
		{"bad multiplier", header + "\nCAMP,ITEM-1,,huge,2026-06-01T00:00:00Z,2026-08-31T00:00:00Z\n"},
		{"bad timestamp", header + "\nCAMP,ITEM-1,,2.0,June,2026-08-31T00:00:00Z\n"},
		{"no scope", header + "\nCAMP,,,2.0,2026-06-01T00:00:00Z,2026-08-31T00:00:00Z\n"},
		{"inverted window", header + "\nCAMP,ITEM-1,,2.0,2026-08-31T00:00:00Z,2026-06-01T00:00:00Z\n"},
	}

	loader := NewLoader()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempCSV(t, tc.content)
			if _, err := loader.LoadCampaigns(path); err == nil {
				t.Error("Expected load to fail")
			}
		})
	}
}

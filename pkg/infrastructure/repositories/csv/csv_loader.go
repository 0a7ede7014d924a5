package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

// Loader handles loading inventory seed data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadRecords loads inventory records from a CSV file. Stock starts at
// the seeded total with no reservations.
func (l *Loader) LoadRecords(filename string) ([]*entities.InventoryRecord, error) {
	records, err := readAll(filename, []string{
		"item_id", "category", "total_stock",
		"low_stock", "critical_stock", "reorder_point", "optimal_stock",
		"auto_reorder", "reorder_quantity", "reorder_frequency", "lead_time_days", "safety_stock",
		"spring", "summer", "fall", "winter",
	})
	if err != nil {
		return nil, fmt.Errorf("inventory CSV: %w", err)
	}

	var result []*entities.InventoryRecord
	for i, row := range records {
		record, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		result = append(result, record)
	}
	return result, nil
}

// LoadCampaigns loads campaign multipliers from a CSV file
func (l *Loader) LoadCampaigns(filename string) ([]*entities.CampaignMultiplier, error) {
	records, err := readAll(filename, []string{
		"campaign_id", "item_id", "category", "multiplier", "valid_from", "valid_until",
	})
	if err != nil {
		return nil, fmt.Errorf("campaigns CSV: %w", err)
	}

	var result []*entities.CampaignMultiplier
	for i, row := range records {
		campaign, err := parseCampaign(row)
		if err != nil {
			return nil, fmt.Errorf("campaigns CSV row %d: %w", i+2, err)
		}
		result = append(result, campaign)
	}
	return result, nil
}

func readAll(filename string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have header and at least one data row", filename)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}
	for i, row := range records[1:] {
		if len(row) != len(expectedHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(row))
		}
	}
	return records[1:], nil
}

func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, h := range header {
		if strings.TrimSpace(strings.ToLower(h)) != expected[i] {
			return false
		}
	}
	return true
}

func parseRecord(row []string) (*entities.InventoryRecord, error) {
	totalStock, err := parseQuantity(row[2], "total_stock")
	if err != nil {
		return nil, err
	}

	low, err := parseQuantity(row[3], "low_stock")
	if err != nil {
		return nil, err
	}
	critical, err := parseQuantity(row[4], "critical_stock")
	if err != nil {
		return nil, err
	}
	reorderPoint, err := parseQuantity(row[5], "reorder_point")
	if err != nil {
		return nil, err
	}
	optimal, err := parseQuantity(row[6], "optimal_stock")
	if err != nil {
		return nil, err
	}
	thresholds, err := entities.NewThresholds(low, critical, reorderPoint, optimal)
	if err != nil {
		return nil, err
	}

	autoReorder, err := strconv.ParseBool(strings.TrimSpace(row[7]))
	if err != nil {
		return nil, fmt.Errorf("invalid auto_reorder %q: %w", row[7], err)
	}
	reorderQty, err := parseQuantity(row[8], "reorder_quantity")
	if err != nil {
		return nil, err
	}
	leadTime, err := strconv.Atoi(strings.TrimSpace(row[10]))
	if err != nil {
		return nil, fmt.Errorf("invalid lead_time_days %q: %w", row[10], err)
	}
	safetyStock, err := parseQuantity(row[11], "safety_stock")
	if err != nil {
		return nil, err
	}

	strategy := entities.RestockStrategy{
		AutoReorder:          autoReorder,
		ReorderQuantity:      reorderQty,
		ReorderFrequency:     entities.ReorderFrequency(strings.TrimSpace(row[9])),
		SupplierLeadTimeDays: leadTime,
		SafetyStock:          safetyStock,
	}

	record, err := entities.NewInventoryRecord(entities.ItemID(strings.TrimSpace(row[0])), strings.TrimSpace(row[1]), thresholds, strategy)
	if err != nil {
		return nil, err
	}
	record.TotalStock = totalStock

	seasonal := make(entities.SeasonalProfile, 4)
	for i, season := range []entities.Season{entities.Spring, entities.Summer, entities.Fall, entities.Winter} {
		multiplier, err := decimal.NewFromString(strings.TrimSpace(row[12+i]))
		if err != nil {
			return nil, fmt.Errorf("invalid %s multiplier %q: %w", season, row[12+i], err)
		}
		seasonal[season] = multiplier
	}
	record.Seasonal = seasonal

	return record, nil
}

func parseCampaign(row []string) (*entities.CampaignMultiplier, error) {
	multiplier, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid multiplier %q: %w", row[3], err)
	}
	validFrom, err := time.Parse(time.RFC3339, strings.TrimSpace(row[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid valid_from %q: %w", row[4], err)
	}
	validUntil, err := time.Parse(time.RFC3339, strings.TrimSpace(row[5]))
	if err != nil {
		return nil, fmt.Errorf("invalid valid_until %q: %w", row[5], err)
	}

	return entities.NewCampaignMultiplier(
		entities.CampaignID(strings.TrimSpace(row[0])),
		entities.ItemID(strings.TrimSpace(row[1])),
		strings.TrimSpace(row[2]),
		multiplier,
		validFrom,
		validUntil,
	)
}

func parseQuantity(s, field string) (entities.Quantity, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return entities.Quantity(v), nil
}

package billing

import (
	"testing"
	"time"

	"gamelounge/internal/models"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %s: %v", value, err)
	}
	return parsed
}

func TestPriceExtras(t *testing.T) {
	catalog := map[int64]models.Product{
		1: {ID: 1, Name: "Coke", Price: 40, IsActive: true},
		2: {ID: 2, Name: "Chips", Price: 25, IsActive: true},
	}

	tests := []struct {
		name      string
		lines     []models.ExtraLineItem
		wantTotal models.Money
		wantLines int
	}{
		{
			name:      "no lines",
			lines:     nil,
			wantTotal: 0,
			wantLines: 0,
		},
		{
			name: "single line",
			lines: []models.ExtraLineItem{
				{ProductID: 1, Quantity: 2},
			},
			wantTotal: 80,
			wantLines: 1,
		},
		{
			name: "multiple lines summed",
			lines: []models.ExtraLineItem{
				{ProductID: 1, Quantity: 2},
				{ProductID: 2, Quantity: 3},
			},
			wantTotal: 155,
			wantLines: 2,
		},
		{
			name: "unknown product dropped silently",
			lines: []models.ExtraLineItem{
				{ProductID: 1, Quantity: 1},
				{ProductID: 99, Quantity: 5},
			},
			wantTotal: 40,
			wantLines: 1,
		},
		{
			name: "zero quantity dropped",
			lines: []models.ExtraLineItem{
				{ProductID: 1, Quantity: 0},
				{ProductID: 2, Quantity: 1},
			},
			wantTotal: 25,
			wantLines: 1,
		},
		{
			name: "negative quantity dropped",
			lines: []models.ExtraLineItem{
				{ProductID: 1, Quantity: -3},
			},
			wantTotal: 0,
			wantLines: 0,
		},
		{
			name: "duplicate product lines priced independently",
			lines: []models.ExtraLineItem{
				{ProductID: 2, Quantity: 1},
				{ProductID: 2, Quantity: 2},
			},
			wantTotal: 75,
			wantLines: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, detail := PriceExtras(tt.lines, catalog)
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
			if len(detail) != tt.wantLines {
				t.Errorf("accepted %d lines, want %d", len(detail), tt.wantLines)
			}
			var sum models.Money
			for _, line := range detail {
				if line.LineTotal != line.UnitPrice*models.Money(line.Quantity) {
					t.Errorf("line %+v: total mismatch", line)
				}
				sum += line.LineTotal
			}
			if sum != total {
				t.Errorf("line sum %d != total %d", sum, total)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	base := mustParse(t, "2025-03-10T14:00:00Z")

	tests := []struct {
		name string
		end  string
		want string
	}{
		{"zero", "2025-03-10T14:00:00Z", "0h 0m 0s"},
		{"seconds only", "2025-03-10T14:00:45Z", "0h 0m 45s"},
		{"mixed", "2025-03-10T15:23:45Z", "1h 23m 45s"},
		{"many hours", "2025-03-11T16:00:00Z", "26h 0m 0s"},
		{"end before start clamps", "2025-03-10T13:00:00Z", "0h 0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(base, mustParse(t, tt.end)); got != tt.want {
				t.Errorf("FormatDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}

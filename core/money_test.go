package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func TestPriceMeetsReserve(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		reserve  string
		expected bool
	}{
		{"price above reserve", "3.00", "2.50", true},
		{"price at reserve", "2.50", "2.50", true},
		{"price below reserve", "2.00", "2.50", false},
		{"zero reserve - always passes", "1.00", "0", true},
		{"zero reserve with zero price", "0", "0", true},
		{"rounding edge case - passes", "2.4999", "2.50", true},
		{"rounding edge case - fails", "2.494", "2.50", false},
		{"negative price below zero reserve", "-1", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PriceMeetsReserve(decimal.RequireFromString(tt.price), decimal.RequireFromString(tt.reserve))
			check.Equal(t, tt.expected, result)
		})
	}
}

func TestCanAfford(t *testing.T) {
	tests := []struct {
		name     string
		budget   string
		price    string
		expected bool
	}{
		{"price under budget", "10.00", "7.25", true},
		{"price equals budget", "10.00", "10.00", true},
		{"price over budget", "10.00", "10.01", false},
		{"empty budget, free player", "0", "0", true},
		{"empty budget, paid player", "0", "0.25", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanAfford(decimal.RequireFromString(tt.budget), decimal.RequireFromString(tt.price))
			check.Equal(t, tt.expected, result)
		})
	}
}

func TestMoneyFromFloat(t *testing.T) {
	check.Equal(t, "0.30", FormatMoney(MoneyFromFloat(0.1+0.2)))
	check.Equal(t, "12.25", FormatMoney(MoneyFromFloat(12.25)))
	check.Equal(t, 87.5, MoneyToFloat(decimal.RequireFromString("87.50")))
}

func TestTeamSpent(t *testing.T) {
	id := PlayerID(4)
	team := Team{
		Name:   "Strikers",
		Budget: decimal.RequireFromString("80"),
		Roster: []AcquiredPlayer{
			{PlayerID: &id, Name: "A B", Price: decimal.RequireFromString("12.5")},
			{Name: "Retained", Price: decimal.RequireFromString("7.5")},
		},
	}
	check.True(t, decimal.RequireFromString("20").Equal(team.Spent()))
}

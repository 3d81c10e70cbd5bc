package core

import (
	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 2 // budgets are entered in Cr / Million with 0.01 precision

// RoundMoney rounds an amount to monetaryPrecision.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(monetaryPrecision)
}

// MoneyFromFloat converts a float amount (snapshot or CLI input) into a rounded decimal.
func MoneyFromFloat(amount float64) decimal.Decimal {
	return RoundMoney(decimal.NewFromFloat(amount))
}

// MoneyToFloat converts an amount back to float64 for serialization.
func MoneyToFloat(amount decimal.Decimal) float64 {
	f, _ := RoundMoney(amount).Float64()
	return f
}

// FormatMoney renders an amount with exactly monetaryPrecision decimal places.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(monetaryPrecision)
}

// PriceMeetsReserve returns true if the price meets or exceeds the reserve price.
// Both values are rounded to monetaryPrecision before comparison.
func PriceMeetsReserve(price, reserve decimal.Decimal) bool {
	return RoundMoney(price).GreaterThanOrEqual(RoundMoney(reserve))
}

// CanAfford returns true if a team with the given budget can pay the price
// without its budget going negative.
func CanAfford(budget, price decimal.Decimal) bool {
	return RoundMoney(price).LessThanOrEqual(RoundMoney(budget))
}

func sumPrices(roster []AcquiredPlayer) decimal.Decimal {
	total := decimal.Zero
	for _, p := range roster {
		total = total.Add(p.Price)
	}
	return total
}

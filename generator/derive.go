package generator

import "cfl_scraper/models"

// Valuation fields are pure functions of price. Integer arithmetic keeps
// re-derivation from a stored price exact.

// RentEstimate is floor(price * 0.006)
func RentEstimate(price int) int {
	return price * 6 / 1000
}

// DerivePriceHistory returns the two synthetic sale events for a price
func DerivePriceHistory(price int) []models.PriceEvent {
	return []models.PriceEvent{
		{Date: "2024-01-15", Event: "Listed for sale", Price: price, Source: "MLS"},
		{Date: "2019-06-20", Event: "Sold", Price: price * 75 / 100, Source: "Public Record"},
	}
}

// DeriveTaxHistory returns the two synthetic tax years for a price
func DeriveTaxHistory(price int) []models.TaxRecord {
	return []models.TaxRecord{
		{Year: 2023, TaxPaid: price * 18 / 1000, AssessedValue: price * 85 / 100},
		{Year: 2022, TaxPaid: price * 17 / 1000, AssessedValue: price * 80 / 100},
	}
}

package domain

// Currency is the currency code used for all charges.
const Currency = "AED"

// TaxRatePercent is the flat tax rate applied at checkout and booking.
const TaxRatePercent = 8

// Tax returns the tax for the given subtotal in major units, rounded half up.
func Tax(subtotal int64) int64 {
	return (subtotal*TaxRatePercent + 50) / 100
}

// TotalWithTax returns the tax-inclusive total for the given subtotal.
func TotalWithTax(subtotal int64) int64 {
	return subtotal + Tax(subtotal)
}

// MinorUnits converts an amount in major currency units to the minor units
// expected by the payment provider (e.g. 100 -> 10000).
func MinorUnits(amount int64) int64 {
	return amount * 100
}

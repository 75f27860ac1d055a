package models

import "github.com/shopspring/decimal"

// StoreStats is the whole-table aggregate for one symbol as computed by the database.
type StoreStats struct {
	Symbol string
	Count  int64
	Min    *decimal.Decimal
	Max    *decimal.Decimal
	Avg    *decimal.Decimal
}

// StoreReport is the operator view of the price store used by the check mode.
type StoreReport struct {
	TotalRows int64
	Recent    []PriceObservation
	Symbol    *StoreStats
}

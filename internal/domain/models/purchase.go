package models

import "github.com/shopspring/decimal"

// PurchaseRequestRow is one line item of a purchase request, not yet committed
// to inventory.
type PurchaseRequestRow struct {
	Name      string          `json:"name"`
	Spec      string          `json:"spec"`
	Quantity  int             `json:"quantity"`
	SKU       string          `json:"sku"`
	Link      string          `json:"link"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Requester string          `json:"requester"`
}

// LineTotal is quantity multiplied by unit price.
func (r PurchaseRequestRow) LineTotal() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// PurchaseTotal sums the line totals of every row.
func PurchaseTotal(rows []PurchaseRequestRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.LineTotal())
	}
	return total
}

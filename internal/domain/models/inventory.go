package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is one stocked material in the warehouse. It carries no bson
// tags: the MongoDB store maps it through its own document type so the
// decimal price is stored as an exact string.
type InventoryItem struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Spec      string          `json:"spec"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Cells returns the item's values in display column order, stringified for search.
func (i InventoryItem) Cells() []string {
	return []string{i.SKU, i.Name, i.Spec, strconv.Itoa(i.Quantity), i.UnitPrice.String()}
}

// InventoryColumns names the columns produced by InventoryItem.Cells.
var InventoryColumns = []string{"SKU", "Name", "Spec", "Quantity", "Unit Price"}

// MovementReason classifies stock movements.
type MovementReason string

const (
	MovementIn     MovementReason = "in"
	MovementOut    MovementReason = "out"
	MovementIssue  MovementReason = "issue"
	MovementManual MovementReason = "adjust"
)

// StockMovement is the audit record written for every quantity change.
type StockMovement struct {
	ID        string         `bson:"id" json:"id"`
	SKU       string         `bson:"sku" json:"sku"`
	Delta     int            `bson:"delta" json:"delta"`
	Reason    MovementReason `bson:"reason" json:"reason"`
	Note      string         `bson:"note,omitempty" json:"note,omitempty"`
	Actor     string         `bson:"actor" json:"actor"`
	ResultQty int            `bson:"result_qty" json:"result_qty"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}

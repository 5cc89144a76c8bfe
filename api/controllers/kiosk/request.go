package kiosk

import (
	"github.com/shopspring/decimal"
)

// AddItemRequest mirrors one catalog card being added to the cart. The price
// travels with the request because the cart renders offline from the catalog.
type AddItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest sets a cart line quantity directly.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// TenderRequest inserts or takes back units of one denomination.
type TenderRequest struct {
	Denomination decimal.Decimal `json:"denomination"`
	Count        int             `json:"count" validate:"required,gte=1"`
}

// TabsRequest updates the session's submenu selections. Empty fields are
// left unchanged.
type TabsRequest struct {
	Catalog string `json:"catalog,omitempty"`
	Money   string `json:"money,omitempty"`
}

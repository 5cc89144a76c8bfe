package machine

import "github.com/shopspring/decimal"

// Product mirrors the backend's catalog document.
type Product struct {
	ID      string          `json:"_id,omitempty"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock"`
	Img     string          `json:"img,omitempty"`
	Kind    string          `json:"kind,omitempty"`
	Version *int            `json:"__v,omitempty"`
}

// ProductInput carries the writable product fields. Create/update payloads
// must not echo the backend-owned _id and __v fields.
type ProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Img   string          `json:"img,omitempty"`
	Kind  string          `json:"kind,omitempty"`
}

// ProductList is the paginated admin listing shape.
type ProductList struct {
	Items      []Product `json:"items"`
	TotalItems int       `json:"totalItems"`
}

// InventoryItem mirrors the backend's coin/banknote stock document.
type InventoryItem struct {
	ID           string          `json:"_id,omitempty"`
	Type         string          `json:"type"`
	Denomination decimal.Decimal `json:"denomination"`
	Quantity     int             `json:"quantity"`
	Version      *int            `json:"__v,omitempty"`
}

// InventoryInput carries the writable inventory fields.
type InventoryInput struct {
	Type         string          `json:"type"`
	Denomination decimal.Decimal `json:"denomination"`
	Quantity     int             `json:"quantity"`
}

// PurchaseLine identifies one cart line in a purchase request.
type PurchaseLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// DenominationCount is one tendered face value with its unit count.
type DenominationCount struct {
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
}

// PurchaseRequest is the body posted to the backend's purchase endpoint.
type PurchaseRequest struct {
	Products      []PurchaseLine      `json:"products"`
	TotalPaid     decimal.Decimal     `json:"totalPaid"`
	Denominations []DenominationCount `json:"denominations"`
}

// ValidatedProduct is one line of a settled transaction.
type ValidatedProduct struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// ChangeEntry is one denomination returned as change.
type ChangeEntry struct {
	Denomination decimal.Decimal `json:"denomination"`
	Quantity     int             `json:"quantity"`
}

// Transaction is the backend's record of a completed purchase. It is
// immutable once received.
type Transaction struct {
	TransactionID     string             `json:"transactionId"`
	Timestamp         string             `json:"timestamp"`
	ValidatedProducts []ValidatedProduct `json:"validatedProducts"`
	TotalCost         decimal.Decimal    `json:"totalCost"`
	TotalPaid         decimal.Decimal    `json:"totalPaid"`
	Change            []ChangeEntry      `json:"change"`
}

// ImageUploadResult is returned by the backend's image upload endpoint.
type ImageUploadResult struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

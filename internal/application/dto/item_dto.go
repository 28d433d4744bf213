package dto

import "github.com/shopspring/decimal"

// CreateItemRequest body para POST /items.
type CreateItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int64          `json:"stock,omitempty"` // stock inicial; 0 si no viene
	Barcode     string          `json:"barcode,omitempty"`
	CategoryID  string          `json:"categoryId,omitempty"`
}

// UpdateItemRequest body para PUT/PATCH /items/:id (campos opcionales).
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Barcode     *string          `json:"barcode,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// AdjustStockRequest body para PATCH /items/:id/adjust-stock.
// Ajuste directo del agregado (correcciones manuales); los movimientos normales
// van por POST /movements.
type AdjustStockRequest struct {
	Delta int64 `json:"delta"`
}

// ItemResponse representación de un item en respuestas.
type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Barcode     string          `json:"barcode,omitempty"`
	CategoryID  string          `json:"categoryId,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// ItemListResponse listado paginado de items.
type ItemListResponse struct {
	Page  PageResponse   `json:"page"`
	Items []ItemResponse `json:"items"`
}

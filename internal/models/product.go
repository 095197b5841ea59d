package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product entity in the inventory system.
// Code is the business key used by bulk imports.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Code        string          `json:"code" db:"code"`
	Name        string          `json:"name" db:"name"`
	Brand       *string         `json:"brand,omitempty" db:"brand"`
	Description *string         `json:"description,omitempty" db:"description"`
	Cost        decimal.Decimal `json:"cost" db:"cost"`
	CategoryID  *int64          `json:"category_id,omitempty" db:"category_id"`
	GRNDate     *time.Time      `json:"grn_date,omitempty" db:"grn_date"`
	ImageURL    *string         `json:"image_url,omitempty" db:"image_url"`
	Remarks     *string         `json:"remarks,omitempty" db:"remarks"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Warehouse struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Location  *string   `json:"location,omitempty" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

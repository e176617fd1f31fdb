package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is the ledger-side product catalog entry matched against
// storefront line items by Magento product id.
type Item struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemCode         string    `gorm:"column:item_code;not null;uniqueIndex"`
	ItemName         string    `gorm:"column:item_name;not null"`
	MagentoProductID int64     `gorm:"column:magento_product_id;not null;uniqueIndex"`
	SKU              string    `gorm:"column:sku"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the ledger-side party a storefront order bills to.
// Account shoppers are keyed by MagentoCustomerID, guest shoppers by
// MagentoCustomerEmail; at most one customer exists per key.
type Customer struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string    `gorm:"column:name;not null;uniqueIndex"`
	MagentoCustomerID    *int64    `gorm:"column:magento_customer_id;uniqueIndex"`
	MagentoCustomerEmail *string   `gorm:"column:magento_customer_email;uniqueIndex"`
	FirstName            string    `gorm:"column:first_name"`
	LastName             string    `gorm:"column:last_name"`
	CustomerGroup        string    `gorm:"column:customer_group;not null"`
	Territory            string    `gorm:"column:territory;not null"`
	CustomerType         string    `gorm:"column:customer_type;not null;default:'Individual'"`
	Details              *string   `gorm:"column:details"`
	Addresses            []Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

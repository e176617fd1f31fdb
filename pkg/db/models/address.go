package models

import (
	"time"

	"github.com/google/uuid"
)

// Address belongs to a customer. Identity is the Magento address id when
// present; otherwise the (first name, last name, pincode, line1) natural
// key is the only handle we have.
type Address struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string    `gorm:"column:name;not null;uniqueIndex"`
	CustomerID       uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	MagentoAddressID *int64    `gorm:"column:magento_address_id;uniqueIndex"`
	AddressType      string    `gorm:"column:address_type;not null;default:'Billing'"`
	FirstName        string    `gorm:"column:first_name;not null;index:idx_addresses_natural_key"`
	LastName         string    `gorm:"column:last_name;not null;index:idx_addresses_natural_key"`
	AddressLine1     string    `gorm:"column:address_line1;not null;index:idx_addresses_natural_key"`
	AddressLine2     *string   `gorm:"column:address_line2"`
	City             string    `gorm:"column:city"`
	Pincode          string    `gorm:"column:pincode;index:idx_addresses_natural_key"`
	Country          string    `gorm:"column:country"`
	Phone            *string   `gorm:"column:phone"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nasir97177/erpnext-magento/pkg/enums"
)

// DeliveryNote mirrors a fulfillment. Inbound notes are keyed by
// MagentoShipmentID; locally created notes leave it nil until the
// outbound push succeeds, which is the at-most-once-push guard.
type DeliveryNote struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string             `gorm:"column:name;not null;uniqueIndex"`
	NamingSeries      string             `gorm:"column:naming_series;not null"`
	SalesOrderID      uuid.UUID          `gorm:"column:sales_order_id;type:uuid;not null;index"`
	MagentoOrderID    *int64             `gorm:"column:magento_order_id"`
	MagentoShipmentID *int64             `gorm:"column:magento_shipment_id;uniqueIndex"`
	DocStatus         enums.DocStatus    `gorm:"column:doc_status;not null;default:0"`
	Items             []DeliveryNoteItem `gorm:"foreignKey:DeliveryNoteID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// DeliveryNoteItem carries the shipped quantity for one order line.
type DeliveryNoteItem struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DeliveryNoteID     uuid.UUID       `gorm:"column:delivery_note_id;type:uuid;not null;index"`
	ItemCode           string          `gorm:"column:item_code;not null"`
	MagentoOrderItemID int64           `gorm:"column:magento_order_item_id;not null"`
	Qty                decimal.Decimal `gorm:"column:qty;type:numeric;not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nasir97177/erpnext-magento/pkg/enums"
)

// SalesInvoice is created once per Magento order as a copy-forward of the
// submitted sales order, then advanced to submitted/paid when the
// storefront reports the invoice paid.
type SalesInvoice struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string              `gorm:"column:name;not null;uniqueIndex"`
	NamingSeries   string              `gorm:"column:naming_series;not null"`
	MagentoOrderID int64               `gorm:"column:magento_order_id;not null;uniqueIndex"`
	SalesOrderID   uuid.UUID           `gorm:"column:sales_order_id;type:uuid;not null;index"`
	CustomerID     uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	Company        string              `gorm:"column:company;not null"`
	DiscountAmount decimal.Decimal     `gorm:"column:discount_amount;type:numeric;not null"`
	DocStatus      enums.DocStatus     `gorm:"column:doc_status;not null;default:0"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;not null;default:'unpaid'"`
	Items          []SalesInvoiceItem  `gorm:"foreignKey:SalesInvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// SalesInvoiceItem is an order line copied onto the invoice with the
// configured cost center applied.
type SalesInvoiceItem struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SalesInvoiceID     uuid.UUID       `gorm:"column:sales_invoice_id;type:uuid;not null;index"`
	ItemCode           string          `gorm:"column:item_code;not null"`
	ItemName           string          `gorm:"column:item_name;not null"`
	MagentoOrderItemID int64           `gorm:"column:magento_order_item_id;not null"`
	Rate               decimal.Decimal `gorm:"column:rate;type:numeric;not null"`
	Qty                decimal.Decimal `gorm:"column:qty;type:numeric;not null"`
	CostCenter         string          `gorm:"column:cost_center;not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}

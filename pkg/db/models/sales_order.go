package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nasir97177/erpnext-magento/pkg/enums"
)

// SalesOrder materializes one storefront order. MagentoOrderID is unique:
// the orchestrator checks existence before asking the materializer to
// create one.
type SalesOrder struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string              `gorm:"column:name;not null;uniqueIndex"`
	NamingSeries         string              `gorm:"column:naming_series;not null"`
	MagentoOrderID       int64               `gorm:"column:magento_order_id;not null;uniqueIndex"`
	MagentoPaymentMethod string              `gorm:"column:magento_payment_method"`
	CustomerID           uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	BillingAddressID     *uuid.UUID          `gorm:"column:billing_address_id;type:uuid"`
	ShippingAddressID    *uuid.UUID          `gorm:"column:shipping_address_id;type:uuid"`
	Company              string              `gorm:"column:company;not null"`
	SellingPriceList     string              `gorm:"column:selling_price_list;not null"`
	DeliveryDate         time.Time           `gorm:"column:delivery_date"`
	ApplyDiscountOn      string              `gorm:"column:apply_discount_on;not null;default:'Grand Total'"`
	DiscountAmount       decimal.Decimal     `gorm:"column:discount_amount;type:numeric;not null"`
	DocStatus            enums.DocStatus     `gorm:"column:doc_status;not null;default:0"`
	Items                []SalesOrderItem    `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE"`
	Taxes                []SalesOrderTaxLine `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// SalesOrderItem carries one concrete purchasable variant; configurable
// parent rows from the storefront are never materialized.
type SalesOrderItem struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SalesOrderID       uuid.UUID       `gorm:"column:sales_order_id;type:uuid;not null;index"`
	ItemCode           string          `gorm:"column:item_code;not null"`
	ItemName           string          `gorm:"column:item_name;not null"`
	MagentoOrderItemID int64           `gorm:"column:magento_order_item_id;not null"`
	MagentoSKU         string          `gorm:"column:magento_sku"`
	Rate               decimal.Decimal `gorm:"column:rate;type:numeric;not null"`
	Qty                decimal.Decimal `gorm:"column:qty;type:numeric;not null"`
	DeliveryDate       time.Time       `gorm:"column:delivery_date"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// SalesOrderTaxLine is one applied-tax row mapped through the static
// tax-account table.
type SalesOrderTaxLine struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SalesOrderID        uuid.UUID       `gorm:"column:sales_order_id;type:uuid;not null;index"`
	ChargeType          string          `gorm:"column:charge_type;not null;default:'On Net Total'"`
	AccountHead         string          `gorm:"column:account_head;not null"`
	Description         string          `gorm:"column:description"`
	Rate                decimal.Decimal `gorm:"column:rate;type:numeric;not null"`
	IncludedInPrintRate bool            `gorm:"column:included_in_print_rate;not null;default:true"`
	CostCenter          string          `gorm:"column:cost_center;not null"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nasir97177/erpnext-magento/pkg/enums"
)

// PaymentEntry settles a sales invoice against the configured cash/bank
// account. One entry per invoice; the pipeline never pays twice.
type PaymentEntry struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `gorm:"column:name;not null;uniqueIndex"`
	SalesInvoiceID uuid.UUID       `gorm:"column:sales_invoice_id;type:uuid;not null;uniqueIndex"`
	BankAccount    string          `gorm:"column:bank_account;not null"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	ReferenceNo    string          `gorm:"column:reference_no;not null"`
	ReferenceDate  time.Time       `gorm:"column:reference_date;not null"`
	DocStatus      enums.DocStatus `gorm:"column:doc_status;not null;default:0"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

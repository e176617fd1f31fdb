package invoices

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nasir97177/erpnext-magento/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sales invoice repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByMagentoOrderID(ctx context.Context, magentoOrderID int64) (*models.SalesInvoice, error) {
	var invoice models.SalesInvoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("magento_order_id = ?", magentoOrderID).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) Create(ctx context.Context, invoice *models.SalesInvoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) Update(ctx context.Context, invoice *models.SalesInvoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *repository) CreatePaymentEntry(ctx context.Context, entry *models.PaymentEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

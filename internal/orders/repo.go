package orders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nasir97177/erpnext-magento/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sales order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByMagentoOrderID(ctx context.Context, magentoOrderID int64) (*models.SalesOrder, error) {
	var order models.SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Taxes").
		Where("magento_order_id = ?", magentoOrderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts the sales order with its item and tax associations in
// one transaction.
func (r *repository) Create(ctx context.Context, order *models.SalesOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindItemByMagentoProductID(ctx context.Context, magentoProductID int64) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("magento_product_id = ?", magentoProductID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

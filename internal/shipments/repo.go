package shipments

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nasir97177/erpnext-magento/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a delivery note repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByMagentoShipmentID(ctx context.Context, magentoShipmentID int64) (*models.DeliveryNote, error) {
	var note models.DeliveryNote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("magento_shipment_id = ?", magentoShipmentID).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *repository) Create(ctx context.Context, note *models.DeliveryNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *repository) Update(ctx context.Context, note *models.DeliveryNote) error {
	return r.db.WithContext(ctx).Save(note).Error
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

// PendingOutbound selects submitted notes that never received a
// storefront shipment id, joined to sales orders that came from the
// storefront in the first place.
func (r *repository) PendingOutbound(ctx context.Context, since *time.Time) ([]OutboundNote, error) {
	query := r.db.WithContext(ctx).
		Model(&models.DeliveryNote{}).
		Select("delivery_notes.id").
		Joins("JOIN sales_orders ON sales_orders.id = delivery_notes.sales_order_id").
		Where("delivery_notes.magento_shipment_id IS NULL").
		Where("delivery_notes.doc_status = ?", 1).
		Where("sales_orders.magento_order_id IS NOT NULL")
	if since != nil {
		query = query.Where("delivery_notes.updated_at >= ?", *since)
	}

	var ids []string
	if err := query.Pluck("delivery_notes.id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var notes []models.DeliveryNote
	if err := r.db.WithContext(ctx).Preload("Items").Where("id IN ?", ids).Find(&notes).Error; err != nil {
		return nil, err
	}

	out := make([]OutboundNote, 0, len(notes))
	for _, note := range notes {
		var order models.SalesOrder
		if err := r.db.WithContext(ctx).
			Select("name", "magento_order_id").
			Where("id = ?", note.SalesOrderID).
			First(&order).Error; err != nil {
			return nil, err
		}
		out = append(out, OutboundNote{
			Note:           note,
			MagentoOrderID: order.MagentoOrderID,
			SalesOrderName: order.Name,
		})
	}
	return out, nil
}

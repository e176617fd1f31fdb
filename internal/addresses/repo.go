package addresses

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nasir97177/erpnext-magento/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an addresses repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByMagentoAddressID(ctx context.Context, magentoAddressID int64) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("magento_address_id = ?", magentoAddressID).
		First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repository) FindByNaturalKey(ctx context.Context, firstName, lastName, line1, pincode string) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("first_name = ? AND last_name = ? AND address_line1 = ? AND pincode = ?",
			firstName, lastName, line1, pincode).
		First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *repository) Update(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

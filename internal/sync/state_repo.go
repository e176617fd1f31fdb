package sync

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nasir97177/erpnext-magento/pkg/db/models"
)

type stateRepository struct {
	db *gorm.DB
}

// NewStateRepository builds the cursor repository. The migrations seed
// the single row; a missing row is created on first read.
func NewStateRepository(db *gorm.DB) StateRepository {
	return &stateRepository{db: db}
}

func (r *stateRepository) Get(ctx context.Context) (*models.SyncState, error) {
	var state models.SyncState
	err := r.db.WithContext(ctx).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = models.SyncState{}
		if err := r.db.WithContext(ctx).Create(&state).Error; err != nil {
			return nil, err
		}
		return &state, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *stateRepository) Update(ctx context.Context, state *models.SyncState) error {
	return r.db.WithContext(ctx).Save(state).Error
}

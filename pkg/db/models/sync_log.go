package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nasir97177/erpnext-magento/pkg/enums"
)

// SyncLog is the operator-facing failure record. Every caught per-record
// error lands here with the raw request payload that triggered it.
type SyncLog struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string              `gorm:"column:title;not null"`
	Status      enums.SyncLogStatus `gorm:"column:status;not null"`
	Method      string              `gorm:"column:method;not null;index"`
	Message     string              `gorm:"column:message"`
	RequestData []byte              `gorm:"column:request_data;type:jsonb"`
	IsException bool                `gorm:"column:is_exception;not null;default:false"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncState is a single-row cursor pair. LastInboundSyncAt filters which
// storefront orders the next pass fetches; LastOutboundSyncAt filters
// which delivery notes are eligible for the next outbound push.
type SyncState struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LastInboundSyncAt  *time.Time `gorm:"column:last_inbound_sync_at"`
	LastOutboundSyncAt *time.Time `gorm:"column:last_outbound_sync_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

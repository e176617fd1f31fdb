package enums

// SyncLogStatus classifies persisted sync log entries.
type SyncLogStatus string

const (
	SyncLogStatusSuccess SyncLogStatus = "success"
	SyncLogStatusError   SyncLogStatus = "error"
)

// String implements fmt.Stringer.
func (s SyncLogStatus) String() string {
	return string(s)
}

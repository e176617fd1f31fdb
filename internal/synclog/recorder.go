package synclog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nasir97177/erpnext-magento/pkg/db/models"
	"github.com/nasir97177/erpnext-magento/pkg/enums"
	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
)

// Repository persists sync log rows.
type Repository interface {
	Create(ctx context.Context, entry *models.SyncLog) error
}

// Recorder writes the operator-facing sync log. A failed log write is
// itself only logged: bookkeeping must never take down the pass it
// documents.
type Recorder struct {
	repo Repository
	logg *logger.Logger
}

func NewRecorder(repo Repository, logg *logger.Logger) (*Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("synclog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Recorder{repo: repo, logg: logg}, nil
}

// Failure records one caught per-record error with the payload that
// triggered it.
func (r *Recorder) Failure(ctx context.Context, method, title string, cause error, payload any) {
	entry := &models.SyncLog{
		Title:       title,
		Status:      enums.SyncLogStatusError,
		Method:      method,
		IsException: true,
	}
	if cause != nil {
		dump := pkgerrors.Dump(cause)
		entry.Message = fmt.Sprintf("[%s] %s", dump.Code, cause.Error())
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			entry.RequestData = raw
		}
	}

	logCtx := r.logg.WithMethod(ctx, method)
	r.logg.Error(logCtx, title, cause)

	if err := r.repo.Create(ctx, entry); err != nil {
		r.logg.Error(logCtx, "writing sync log entry failed", err)
	}
}

// Success records a completed pass summary.
func (r *Recorder) Success(ctx context.Context, method, title string) {
	entry := &models.SyncLog{
		Title:  title,
		Status: enums.SyncLogStatusSuccess,
		Method: method,
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		r.logg.Error(r.logg.WithMethod(ctx, method), "writing sync log entry failed", err)
	}
}

package cron

import (
	"context"
	"time"

	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// notificationPurger is the slice of the notifications service the retention
// job needs.
type notificationPurger interface {
	DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// NotificationRetentionJob purges notifications older than the configured
// retention window.
type NotificationRetentionJob struct {
	purger    notificationPurger
	retention time.Duration
	logg      *logger.Logger
}

// NewNotificationRetentionJob builds the retention job.
func NewNotificationRetentionJob(purger notificationPurger, retentionDays int, logg *logger.Logger) (*NotificationRetentionJob, error) {
	if purger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	if retentionDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "retention days must be positive")
	}
	return &NotificationRetentionJob{
		purger:    purger,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logg:      logg,
	}, nil
}

func (j *NotificationRetentionJob) Name() string { return "notification_retention" }

func (j *NotificationRetentionJob) Run(ctx context.Context) error {
	deleted, err := j.purger.DeleteOlderThan(ctx, j.retention)
	if err != nil {
		return err
	}
	if j.logg != nil {
		j.logg.Info(j.logg.WithField(ctx, "deleted", deleted), "purged old notifications")
	}
	return nil
}

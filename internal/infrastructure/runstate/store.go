package runstate

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qualrecon/internal/errs"
	"qualrecon/internal/infrastructure/persistence/sqlite/model"
	"qualrecon/internal/ports"
)

const (
	runningValue    = "running"
	lockKeyPrefix   = "lock:"
	lastRunPrefix   = "last_run:"
	timestampFormat = time.RFC3339Nano
)

// Store keeps job-run flags and last-run bookkeeping in a sqlite KV table.
// The running flag is what makes the at-most-one-concurrent-run rule
// concrete for the reconciliation commands.
type Store struct {
	db *gorm.DB
}

var _ ports.RunState = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Acquire sets the job's running flag. The insert races on the primary key,
// so a concurrent second caller loses and gets ErrRunInProgress.
func (s *Store) Acquire(ctx context.Context, job string) error {
	key, err := jobKey(ctx, lockKeyPrefix, job)
	if err != nil {
		return err
	}

	row := model.RunStateKV{
		Key:       key,
		Value:     runningValue,
		UpdatedAt: time.Now().UTC().Format(timestampFormat),
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return errs.Wrap(result.Error, "acquire run flag")
	}
	if result.RowsAffected == 0 {
		return ports.ErrRunInProgress
	}
	return nil
}

func (s *Store) Release(ctx context.Context, job string) error {
	key, err := jobKey(ctx, lockKeyPrefix, job)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&model.RunStateKV{}).Error; err != nil {
		return errs.Wrap(err, "release run flag")
	}
	return nil
}

func (s *Store) RecordRun(ctx context.Context, job string, summary string) error {
	key, err := jobKey(ctx, lastRunPrefix, job)
	if err != nil {
		return err
	}

	row := model.RunStateKV{
		Key:       key,
		Value:     summary,
		UpdatedAt: time.Now().UTC().Format(timestampFormat),
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "record run summary")
	}
	return nil
}

func (s *Store) LastRun(ctx context.Context, job string) (string, bool, error) {
	key, err := jobKey(ctx, lastRunPrefix, job)
	if err != nil {
		return "", false, err
	}

	var row model.RunStateKV
	if err := s.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query last run summary")
	}
	return row.Value, true, nil
}

func jobKey(ctx context.Context, prefix, job string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}

	trimmed := strings.TrimSpace(job)
	if trimmed == "" {
		return "", errors.New("job name is required")
	}
	return prefix + trimmed, nil
}

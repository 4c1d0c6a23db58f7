package db

import (
	"context"

	"gorm.io/gorm"

	"aperture/internal/domain"
)

type VerificationEventRepository struct {
	db *gorm.DB
}

func NewVerificationEventRepository(db *gorm.DB) *VerificationEventRepository {
	return &VerificationEventRepository{db: db}
}

func (r *VerificationEventRepository) RecordVerification(ctx context.Context, event domain.VerificationEvent) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := VerificationEventModel{
		Mode:       event.Mode,
		MerkleRoot: event.MerkleRoot,
		Valid:      event.Valid,
		Reason:     string(event.Reason),
		ClientIP:   event.ClientIP,
		OccurredAt: event.OccurredAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *VerificationEventRepository) CountByReason(ctx context.Context, reason domain.VerificationReason) (int64, error) {
	if r.db == nil {
		return 0, errDBUnavailable
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&VerificationEventModel{}).
		Where("reason = ?", string(reason)).
		Count(&count).Error
	return count, err
}

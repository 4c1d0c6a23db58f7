package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aperture/internal/domain"
)

type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Save(ctx context.Context, claim domain.AttestationClaim) (string, error) {
	if r.db == nil {
		return "", errDBUnavailable
	}
	if err := claim.Validate(); err != nil {
		return "", err
	}

	id, err := newUUID()
	if err != nil {
		return "", err
	}
	model := ClaimModel{
		ID:             id,
		MerkleRoot:     claim.MerkleRoot,
		PublicKey:      claim.PublicKey,
		Signature:      claim.Signature,
		Timestamp:      claim.Timestamp.UTC(),
		TileSize:       claim.TileSize,
		ImageWidth:     claim.ImageWidth,
		ImageHeight:    claim.ImageHeight,
		Metadata:       claim.Metadata,
		KeyAttestation: claim.KeyAttestation,
		CreatedAt:      time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Same root and signature means the same claim; keep the first copy.
		var existing ClaimModel
		err := tx.Where("merkle_root = ? AND signature = ?", claim.MerkleRoot, claim.Signature).
			First(&existing).Error
		if err == nil {
			id = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*domain.AttestationClaim, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ClaimModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	claim := claimFromModel(model)
	return &claim, nil
}

func (r *ClaimRepository) ListByPublicKey(ctx context.Context, publicKey string, limit int) ([]domain.AttestationClaim, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var models []ClaimModel
	err := r.db.WithContext(ctx).
		Where("public_key = ?", publicKey).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	claims := make([]domain.AttestationClaim, 0, len(models))
	for _, m := range models {
		claims = append(claims, claimFromModel(m))
	}
	return claims, nil
}

func claimFromModel(m ClaimModel) domain.AttestationClaim {
	return domain.AttestationClaim{
		MerkleRoot:     m.MerkleRoot,
		PublicKey:      m.PublicKey,
		Signature:      m.Signature,
		Timestamp:      m.Timestamp,
		TileSize:       m.TileSize,
		ImageWidth:     m.ImageWidth,
		ImageHeight:    m.ImageHeight,
		Metadata:       m.Metadata,
		KeyAttestation: m.KeyAttestation,
	}
}

package db

import "time"

type ClaimModel struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	MerkleRoot     string    `gorm:"index;not null"`
	PublicKey      string    `gorm:"index;not null"`
	Signature      string    `gorm:"not null"`
	Timestamp      time.Time `gorm:"not null"`
	TileSize       int       `gorm:"not null"`
	ImageWidth     int       `gorm:"not null"`
	ImageHeight    int       `gorm:"not null"`
	Metadata       []byte    `gorm:"type:jsonb"`
	KeyAttestation string
	CreatedAt      time.Time `gorm:"not null"`
}

func (ClaimModel) TableName() string {
	return "claims"
}

type VerificationEventModel struct {
	ID         int64     `gorm:"primaryKey"`
	Mode       string    `gorm:"not null"`
	MerkleRoot string    `gorm:"index;not null"`
	Valid      bool      `gorm:"not null"`
	Reason     string    `gorm:"not null"`
	ClientIP   string    `gorm:"not null"`
	OccurredAt time.Time `gorm:"index;not null"`
}

func (VerificationEventModel) TableName() string {
	return "verification_events"
}

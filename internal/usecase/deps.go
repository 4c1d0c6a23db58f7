package usecase

import (
	"context"
	"time"

	"aperture/internal/domain"
)

// PolicyEngine gates captures before the signer is asked. Implemented by the
// OPA engine; nil means no gate.
type PolicyEngine interface {
	Evaluate(ctx context.Context, input domain.PolicyInput) (domain.PolicyDecision, error)
}

// ClaimRepository persists issued claims on the verification service side.
type ClaimRepository interface {
	Save(ctx context.Context, claim domain.AttestationClaim) (string, error)
	GetByID(ctx context.Context, id string) (*domain.AttestationClaim, error)
	ListByPublicKey(ctx context.Context, publicKey string, limit int) ([]domain.AttestationClaim, error)
}

// VerificationCache memoizes verdicts for repeated identical requests.
// Verification is pure, so a cached verdict is exactly as good as a fresh one
// for the same inputs.
type VerificationCache interface {
	Get(ctx context.Context, key string) (*domain.VerificationResult, bool, error)
	Put(ctx context.Context, key string, value domain.VerificationResult, ttl time.Duration) error
}

// EventRecorder receives verification outcomes for audit. Recording is
// best-effort; a failed write never changes a verdict.
type EventRecorder interface {
	RecordVerification(ctx context.Context, event domain.VerificationEvent) error
}

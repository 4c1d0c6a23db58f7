package domain

import (
	"context"
	"time"
)

// Signer is the hardware-backed signing capability consumed by attestation.
// Implementations cross a trust boundary (secure enclave, platform key store,
// KMS) that may serialize or rate-limit access; callers bound every Sign with
// a context deadline and never retry automatically on ambiguous failures.
type Signer interface {
	Sign(ctx context.Context, payload []byte) ([]byte, error)
	PublicKey() []byte
}

// KeyAttester optionally supplies an opaque provenance token for the signing
// key. The token is attached to claims unopened; verifying it is someone
// else's job.
type KeyAttester interface {
	KeyAttestation() string
}

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error)
}

package usecase

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"aperture/internal/domain"
)

const defaultSignTimeout = 10 * time.Second

type AttestRequest struct {
	Image    domain.Image
	TileSize int
	// Metadata is the opaque capture blob (device, location, motion). It is
	// attached to the claim, not hashed into the tree.
	Metadata json.RawMessage
	// CapturedAt is the capture timestamp; zero means "now".
	CapturedAt time.Time
}

// Attestor turns a capture into a signed claim. The signer is the one
// externally-serialized resource: its call is bounded by SignTimeout and
// never retried here. Retry policy belongs to the caller, which must not
// resubmit a stale root when the signer's state is unknown.
type Attestor struct {
	Signer      domain.Signer
	Policy      PolicyEngine
	SignTimeout time.Duration
	Workers     int
	Now         func() time.Time
}

func (a *Attestor) Execute(ctx context.Context, req AttestRequest) (*domain.AttestationClaim, error) {
	if a.Signer == nil {
		return nil, fmt.Errorf("%w: no signer configured", domain.ErrSigningFailed)
	}

	tiles, tree, err := buildTree(ctx, req.Image, req.TileSize, a.Workers)
	if err != nil {
		return nil, err
	}

	if a.Policy != nil {
		decision, err := a.Policy.Evaluate(ctx, domain.PolicyInput{
			ImageWidth:  req.Image.Width,
			ImageHeight: req.Image.Height,
			TileSize:    req.TileSize,
			TileCount:   len(tiles),
			Metadata:    req.Metadata,
		})
		if err != nil {
			return nil, fmt.Errorf("evaluate capture policy: %w", err)
		}
		if !decision.Allow {
			return nil, fmt.Errorf("%w: %s", domain.ErrPolicyRejected, denySummary(decision))
		}
	}

	root := tree.Root()
	timeout := a.SignTimeout
	if timeout <= 0 {
		timeout = defaultSignTimeout
	}
	signCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sig, err := a.Signer.Sign(signCtx, root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSigningFailed, err)
	}

	timestamp := req.CapturedAt
	if timestamp.IsZero() {
		timestamp = a.now()
	}

	claim := &domain.AttestationClaim{
		MerkleRoot:  hex.EncodeToString(root),
		PublicKey:   base64.StdEncoding.EncodeToString(a.Signer.PublicKey()),
		Signature:   base64.StdEncoding.EncodeToString(sig),
		Timestamp:   timestamp.UTC(),
		TileSize:    req.TileSize,
		ImageWidth:  req.Image.Width,
		ImageHeight: req.Image.Height,
		Metadata:    req.Metadata,
	}
	if attester, ok := a.Signer.(domain.KeyAttester); ok {
		claim.KeyAttestation = attester.KeyAttestation()
	}
	return claim, nil
}

func (a *Attestor) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func denySummary(decision domain.PolicyDecision) string {
	if len(decision.Deny) == 0 {
		return "policy returned deny without violations"
	}
	return decision.Deny[0].Code
}

// Package attest is the embeddable client surface: attest a capture, build
// crop-proof bundles, and verify claims without running the service.
package attest

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"aperture/internal/domain"
	"aperture/internal/infra/imaging"
	"aperture/internal/infra/policy"
	"aperture/internal/usecase"
)

// Re-exported domain types so embedders never import internal packages.
type (
	Claim              = domain.AttestationClaim
	Image              = domain.Image
	CropRequest        = domain.CropRequest
	CropBundle         = domain.CropBundle
	VerificationResult = domain.VerificationResult
	Signer             = domain.Signer
	PolicyEngine       = usecase.PolicyEngine
)

// LoadPolicy compiles a rego bundle that gates captures before signing.
func LoadPolicy(ctx context.Context, path string) (PolicyEngine, error) {
	return policy.NewEngineFromPath(ctx, path)
}

const (
	ReasonRootMismatch           = domain.ReasonRootMismatch
	ReasonSignatureInvalid       = domain.ReasonSignatureInvalid
	ReasonProofInvalid           = domain.ReasonProofInvalid
	ReasonIncompleteCropCoverage = domain.ReasonIncompleteCropCoverage
	ReasonDimensionMismatch      = domain.ReasonDimensionMismatch
)

// DecodeImage reads a PNG or JPEG stream into the canonical pixel format.
func DecodeImage(r io.Reader) (Image, error) {
	return imaging.Decode(r)
}

type AttestOptions struct {
	TileSize    int
	Metadata    json.RawMessage
	CapturedAt  time.Time
	SignTimeout time.Duration
	Workers     int
	Policy      PolicyEngine
}

// Attest commits to an image and returns the signed claim.
func Attest(ctx context.Context, signer Signer, img Image, opts AttestOptions) (*Claim, error) {
	attestor := &usecase.Attestor{
		Signer:      signer,
		Policy:      opts.Policy,
		SignTimeout: opts.SignTimeout,
		Workers:     opts.Workers,
	}
	return attestor.Execute(ctx, usecase.AttestRequest{
		Image:      img,
		TileSize:   opts.TileSize,
		Metadata:   opts.Metadata,
		CapturedAt: opts.CapturedAt,
	})
}

// BuildCropBundle assembles the selective-disclosure bundle for a crop of an
// attested image. Requires the original image the claim was issued over.
func BuildCropBundle(ctx context.Context, img Image, claim Claim, crop CropRequest) (*CropBundle, error) {
	builder := &usecase.ProofBuilder{}
	return builder.BuildCropBundle(ctx, img, claim, crop)
}

// VerifyFull checks a claim against a fully disclosed image.
func VerifyFull(ctx context.Context, claim Claim, img Image) (VerificationResult, error) {
	verifier := &usecase.FullVerifier{}
	return verifier.Verify(ctx, claim, img)
}

// VerifyCrop checks a crop bundle against a claim using only the disclosed
// tiles.
func VerifyCrop(ctx context.Context, claim Claim, bundle CropBundle) (VerificationResult, error) {
	verifier := &usecase.CropVerifier{}
	return verifier.Verify(ctx, claim, bundle)
}

package usecase

import (
	"bytes"
	"context"

	"aperture/internal/domain"
	"aperture/internal/infra/keys/soft"
)

// FullVerifier checks a claim against a fully disclosed image. Pure function
// over its inputs: errors are reserved for malformed requests, every
// cryptographic outcome is a typed verdict.
type FullVerifier struct {
	Workers int
}

func (v *FullVerifier) Verify(ctx context.Context, claim domain.AttestationClaim, img domain.Image) (domain.VerificationResult, error) {
	if err := claim.Validate(); err != nil {
		return domain.VerificationResult{}, err
	}

	if img.Width != claim.ImageWidth || img.Height != claim.ImageHeight {
		return domain.Reject(domain.ReasonDimensionMismatch), nil
	}

	_, tree, err := buildTree(ctx, img, claim.TileSize, v.Workers)
	if err != nil {
		return domain.VerificationResult{}, err
	}

	claimedRoot, err := claim.RootBytes()
	if err != nil {
		return domain.VerificationResult{}, err
	}
	if !bytes.Equal(tree.Root(), claimedRoot) {
		return domain.Reject(domain.ReasonRootMismatch), nil
	}

	return verifyClaimSignature(claim, claimedRoot)
}

// verifyClaimSignature checks the claim signature over the raw root bytes.
// Shared by both verification modes.
func verifyClaimSignature(claim domain.AttestationClaim, root []byte) (domain.VerificationResult, error) {
	pubKey, err := claim.PublicKeyBytes()
	if err != nil {
		return domain.VerificationResult{}, err
	}
	sig, err := claim.SignatureBytes()
	if err != nil {
		return domain.VerificationResult{}, err
	}
	if err := soft.VerifySignature(pubKey, root, sig); err != nil {
		return domain.Reject(domain.ReasonSignatureInvalid), nil
	}
	return domain.Accept(), nil
}

package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"aperture/internal/domain"
	"aperture/internal/infra/imaging"
	"aperture/internal/infra/merkle"
)

// CropVerifier checks a selective-disclosure bundle against a claim without
// ever seeing the original image. The coverage set comes from grid math over
// the claim's own tiling parameters, so a prover cannot shrink it.
type CropVerifier struct {
	Cache    VerificationCache
	CacheTTL time.Duration
}

func (v *CropVerifier) Verify(ctx context.Context, claim domain.AttestationClaim, bundle domain.CropBundle) (domain.VerificationResult, error) {
	if err := claim.Validate(); err != nil {
		return domain.VerificationResult{}, err
	}

	required, err := imaging.TileIndicesForCrop(claim.ImageWidth, claim.ImageHeight, claim.TileSize, bundle.Crop)
	if err != nil {
		return domain.VerificationResult{}, err
	}

	var cacheKey string
	if v.Cache != nil {
		cacheKey = v.cacheKey(claim, bundle)
		if cached, ok, err := v.Cache.Get(ctx, cacheKey); err == nil && ok && cached != nil {
			return *cached, nil
		}
	}

	result, err := v.verify(claim, bundle, required)
	if err != nil {
		return domain.VerificationResult{}, err
	}

	if v.Cache != nil && cacheKey != "" {
		// Best effort: a failed cache write never changes a verdict.
		_ = v.Cache.Put(ctx, cacheKey, result, v.CacheTTL)
	}
	return result, nil
}

func (v *CropVerifier) verify(claim domain.AttestationClaim, bundle domain.CropBundle, required []int) (domain.VerificationResult, error) {
	tilesByIndex := make(map[int][]byte, len(bundle.Tiles))
	for _, tile := range bundle.Tiles {
		tilesByIndex[tile.Index] = tile.Bytes
	}
	proofsByIndex := make(map[int]domain.InclusionProof, len(bundle.Proofs))
	for _, proof := range bundle.Proofs {
		proofsByIndex[proof.TileIndex] = proof
	}

	// Coverage first: every tile the grid assigns to the crop must be
	// disclosed and proved. Extra unrelated tiles are ignored rather than
	// rejected; they cannot make coverage sufficient.
	for _, idx := range required {
		if _, ok := tilesByIndex[idx]; !ok {
			return domain.Reject(domain.ReasonIncompleteCropCoverage), nil
		}
		if _, ok := proofsByIndex[idx]; !ok {
			return domain.Reject(domain.ReasonIncompleteCropCoverage), nil
		}
	}

	claimedRoot, err := claim.RootBytes()
	if err != nil {
		return domain.VerificationResult{}, err
	}

	// The claim's dimensions and tile size pin the leaf count, and the leaf
	// count plus the tile index pin the shape of a valid path: its depth and
	// the orientation at every level. A proof lifted from some other index
	// cannot recombine to the root under its stated index, so relabeling a
	// disclosed tile is caught even though all hashes in the path are genuine.
	cols, rows, err := imaging.GridSize(claim.ImageWidth, claim.ImageHeight, claim.TileSize)
	if err != nil {
		return domain.VerificationResult{}, err
	}
	leafCount := cols * rows

	for _, idx := range required {
		proof := proofsByIndex[idx]
		tileBytes := tilesByIndex[idx]

		// Disclosed bytes must be exactly one clipped tile, RGBA. Anything
		// longer or shorter is not a leaf preimage for this grid position.
		tileW := min(claim.TileSize, claim.ImageWidth-(idx%cols)*claim.TileSize)
		tileH := min(claim.TileSize, claim.ImageHeight-(idx/cols)*claim.TileSize)
		if len(tileBytes) != tileW*tileH*4 {
			return domain.Reject(domain.ReasonProofInvalid), nil
		}

		leaf := merkle.HashLeaf(tileBytes)

		// The proof's stated leaf hash must match what the disclosed bytes
		// actually hash to; a prover cannot substitute tile contents.
		stated, err := hex.DecodeString(proof.LeafHash)
		if err != nil || !bytes.Equal(stated, leaf) {
			return domain.Reject(domain.ReasonProofInvalid), nil
		}

		path, err := decodePath(proof.Path)
		if err != nil {
			return domain.Reject(domain.ReasonProofInvalid), nil
		}
		root, err := merkle.RootAtIndex(leaf, idx, leafCount, path)
		if err != nil || !bytes.Equal(root, claimedRoot) {
			return domain.Reject(domain.ReasonProofInvalid), nil
		}
	}

	return verifyClaimSignature(claim, claimedRoot)
}

func decodePath(steps []domain.ProofStep) ([]merkle.Step, error) {
	path := make([]merkle.Step, len(steps))
	for i, step := range steps {
		sibling, err := hex.DecodeString(step.SiblingHash)
		if err != nil {
			return nil, err
		}
		if len(sibling) != merkle.HashSize {
			return nil, merkle.ErrInvalidHashLen
		}
		path[i] = merkle.Step{Sibling: sibling, Right: step.SiblingOnRight}
	}
	return path, nil
}

// cacheKey digests the claim root and the full bundle. Verification is pure,
// so identical inputs always produce the identical verdict.
func (v *CropVerifier) cacheKey(claim domain.AttestationClaim, bundle domain.CropBundle) string {
	h := sha256.New()
	h.Write([]byte(claim.MerkleRoot))
	h.Write([]byte(claim.PublicKey))
	h.Write([]byte(claim.Signature))
	payload, err := json.Marshal(bundle)
	if err != nil {
		return ""
	}
	h.Write(payload)
	return "verify:crop:" + hex.EncodeToString(h.Sum(nil))
}

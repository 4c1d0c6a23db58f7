package usecase

import (
	"context"
	"encoding/hex"
	"fmt"

	"aperture/internal/domain"
	"aperture/internal/infra/imaging"
	"aperture/internal/infra/merkle"
)

// ProofBuilder produces crop-proof bundles on the capture holder's side. It
// needs the original image: proofs are derived from the full tree, even
// though the verifier will only ever see the disclosed tiles.
type ProofBuilder struct {
	Workers int
}

// BuildCropBundle rebuilds the committed tree from the original image and
// assembles the disclosed tiles plus one inclusion proof per tile the crop
// touches. The bundle's tile set is exactly the coverage set the verifier
// will recompute from the claim's grid parameters.
func (b *ProofBuilder) BuildCropBundle(ctx context.Context, img domain.Image, claim domain.AttestationClaim, crop domain.CropRequest) (*domain.CropBundle, error) {
	if err := claim.Validate(); err != nil {
		return nil, err
	}
	if img.Width != claim.ImageWidth || img.Height != claim.ImageHeight {
		return nil, fmt.Errorf("%w: image is %dx%d, claim covers %dx%d",
			domain.ErrInvalidImageDimensions, img.Width, img.Height, claim.ImageWidth, claim.ImageHeight)
	}

	indices, err := imaging.TileIndicesForCrop(claim.ImageWidth, claim.ImageHeight, claim.TileSize, crop)
	if err != nil {
		return nil, err
	}

	tiles, tree, err := buildTree(ctx, img, claim.TileSize, b.Workers)
	if err != nil {
		return nil, err
	}

	claimedRoot, err := claim.RootBytes()
	if err != nil {
		return nil, err
	}
	if hex.EncodeToString(claimedRoot) != hex.EncodeToString(tree.Root()) {
		// The image the caller holds is not the image that was attested;
		// proofs built from it would be rejected anyway.
		return nil, fmt.Errorf("%w: image does not match claim root", domain.ErrInvalidClaim)
	}

	bundle := &domain.CropBundle{
		Crop:   crop,
		Tiles:  make([]domain.DisclosedTile, 0, len(indices)),
		Proofs: make([]domain.InclusionProof, 0, len(indices)),
	}
	for _, idx := range indices {
		leaf, err := tree.Leaf(idx)
		if err != nil {
			return nil, err
		}
		path, err := tree.Prove(idx)
		if err != nil {
			return nil, err
		}
		bundle.Tiles = append(bundle.Tiles, domain.DisclosedTile{
			Index: idx,
			Bytes: append([]byte(nil), tiles[idx].Bytes...),
		})
		bundle.Proofs = append(bundle.Proofs, domain.InclusionProof{
			TileIndex: idx,
			LeafHash:  hex.EncodeToString(leaf),
			Path:      encodePath(path),
		})
	}
	return bundle, nil
}

func encodePath(path []merkle.Step) []domain.ProofStep {
	out := make([]domain.ProofStep, len(path))
	for i, step := range path {
		out[i] = domain.ProofStep{
			SiblingHash:    hex.EncodeToString(step.Sibling),
			SiblingOnRight: step.Right,
		}
	}
	return out
}

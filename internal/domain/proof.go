package domain

// ProofStep is one level of an inclusion proof: the sibling hash and which
// side of the subject it sits on. Node hashing is order-sensitive, so the
// side must be reproduced exactly.
type ProofStep struct {
	SiblingHash    string `json:"sibling_hash"` // hex
	SiblingOnRight bool   `json:"sibling_on_right"`
}

// InclusionProof certifies that one tile's leaf hash is part of a claimed
// merkle root. Generated on demand, consumed once, never persisted.
type InclusionProof struct {
	TileIndex int         `json:"tile_index"`
	LeafHash  string      `json:"leaf_hash"` // hex
	Path      []ProofStep `json:"path"`
}

// DisclosedTile is one revealed tile of a crop: its grid index and raw bytes.
type DisclosedTile struct {
	Index int    `json:"index"`
	Bytes []byte `json:"bytes"` // base64 via JSON encoding
}

// CropBundle is the selective-disclosure wire format: the declared crop, the
// surviving tiles, and one inclusion proof per surviving tile.
type CropBundle struct {
	Crop   CropRequest      `json:"crop"`
	Tiles  []DisclosedTile  `json:"tiles"`
	Proofs []InclusionProof `json:"proofs"`
}

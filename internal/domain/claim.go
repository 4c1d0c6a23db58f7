package domain

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"time"
)

// AttestationClaim is the signed statement about one capture. The signature
// covers the raw merkle root bytes; everything else binds the root to the
// tiling parameters that fix the leaf count and order.
type AttestationClaim struct {
	MerkleRoot  string          `json:"merkle_root"` // hex, 32 bytes
	PublicKey   string          `json:"public_key"`  // base64
	Signature   string          `json:"signature"`   // base64
	Timestamp   time.Time       `json:"timestamp"`
	TileSize    int             `json:"tile_size"`
	ImageWidth  int             `json:"image_width"`
	ImageHeight int             `json:"image_height"`
	// Metadata is carried along unopened: device, location and motion blobs
	// belong to the capture pipeline, not to the commitment.
	Metadata json.RawMessage `json:"metadata,omitempty"`
	// KeyAttestation is an opaque provenance token for the signing key.
	KeyAttestation string `json:"key_attestation,omitempty"`
}

func (c AttestationClaim) RootBytes() ([]byte, error) {
	root, err := hex.DecodeString(c.MerkleRoot)
	if err != nil {
		return nil, ErrInvalidClaim
	}
	return root, nil
}

func (c AttestationClaim) PublicKeyBytes() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.PublicKey)
	if err != nil {
		return nil, ErrInvalidClaim
	}
	return key, nil
}

func (c AttestationClaim) SignatureBytes() ([]byte, error) {
	sig, err := base64.StdEncoding.DecodeString(c.Signature)
	if err != nil {
		return nil, ErrInvalidClaim
	}
	return sig, nil
}

// Validate checks structural well-formedness, not cryptographic validity.
func (c AttestationClaim) Validate() error {
	if c.TileSize <= 0 || c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return ErrInvalidClaim
	}
	root, err := c.RootBytes()
	if err != nil {
		return err
	}
	if len(root) != 32 {
		return ErrInvalidClaim
	}
	if c.PublicKey == "" || c.Signature == "" {
		return ErrInvalidClaim
	}
	return nil
}

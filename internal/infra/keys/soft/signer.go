// Package soft provides a software ed25519 implementation of the Signer
// capability. Production captures are expected to inject a hardware-backed
// signer; this one exists for development deployments and tests.
package soft

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"aperture/internal/domain"
)

type Signer struct {
	key         ed25519.PrivateKey
	attestation string
}

// NewSigner generates a fresh keypair.
func NewSigner() (*Signer, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}

// NewSignerFromSeedHex loads a signer from a hex-encoded 32-byte seed.
func NewSignerFromSeedHex(seedHex string) (*Signer, error) {
	raw, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, errors.New("invalid ed25519 seed hex")
	}
	return newSignerFromRaw(raw)
}

// NewSignerFromBase64 loads a signer from a base64-encoded seed or full
// private key.
func NewSignerFromBase64(value string) (*Signer, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.New("invalid ed25519 key base64")
	}
	return newSignerFromRaw(raw)
}

func newSignerFromRaw(raw []byte) (*Signer, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		return &Signer{key: ed25519.NewKeyFromSeed(raw)}, nil
	case ed25519.PrivateKeySize:
		return &Signer{key: ed25519.PrivateKey(raw)}, nil
	default:
		return nil, errors.New("invalid ed25519 private key length")
	}
}

// WithAttestation attaches an opaque key-provenance token that claims will
// carry along unopened.
func (s *Signer) WithAttestation(token string) *Signer {
	s.attestation = token
	return s
}

func (s *Signer) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.key) != ed25519.PrivateKeySize {
		return nil, errors.New("signer key not initialized")
	}
	return ed25519.Sign(s.key, payload), nil
}

func (s *Signer) PublicKey() []byte {
	pub := s.key.Public().(ed25519.PublicKey)
	return append([]byte(nil), pub...)
}

func (s *Signer) KeyAttestation() string {
	return s.attestation
}

// Seed exposes the private seed for keygen output. Handle with care.
func (s *Signer) Seed() []byte {
	return s.key.Seed()
}

// VerifySignature checks an ed25519 signature over payload. Shared by both
// verification modes; kept here so key-length pitfalls live in one place.
func VerifySignature(pubKey, payload, sig []byte) error {
	if len(pubKey) != ed25519.PublicKeySize {
		return errors.New("invalid ed25519 public key length")
	}
	if len(sig) != ed25519.SignatureSize {
		return errors.New("invalid ed25519 signature length")
	}
	if !ed25519.Verify(pubKey, payload, sig) {
		return errors.New("signature verification failed")
	}
	return nil
}

var _ domain.Signer = (*Signer)(nil)
var _ domain.KeyAttester = (*Signer)(nil)

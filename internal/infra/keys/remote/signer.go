// Package remote implements the Signer capability against a device key agent
// reachable over HTTP, the deployment shape where the private key lives in a
// secure enclave behind a local daemon and this process never sees it.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aperture/internal/domain"
)

type Signer struct {
	addr        string
	token       string
	httpClient  *http.Client
	publicKey   []byte
	attestation string
}

type keyResponse struct {
	PublicKey      string `json:"public_key"`
	KeyAttestation string `json:"key_attestation,omitempty"`
}

type signRequest struct {
	Payload string `json:"payload"` // base64
}

type signResponse struct {
	Signature string `json:"signature"` // base64
}

// New connects to the agent and fetches the public key and its attestation
// token once; the key is fixed for the agent's lifetime.
func New(ctx context.Context, addr, token string) (*Signer, error) {
	if addr == "" {
		return nil, errors.New("key agent addr is required")
	}
	s := &Signer{
		addr:       strings.TrimRight(addr, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	var key keyResponse
	if err := s.get(ctx, "/v1/key", &key); err != nil {
		return nil, fmt.Errorf("fetch agent key: %w", err)
	}
	pub, err := base64.StdEncoding.DecodeString(key.PublicKey)
	if err != nil {
		return nil, errors.New("invalid agent public key encoding")
	}
	s.publicKey = pub
	s.attestation = key.KeyAttestation
	return s, nil
}

func (s *Signer) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	body, err := json.Marshal(signRequest{Payload: base64.StdEncoding.EncodeToString(payload)})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.addr+"/v1/sign", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("key agent sign: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out signResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	sig, err := base64.StdEncoding.DecodeString(out.Signature)
	if err != nil {
		return nil, errors.New("invalid agent signature encoding")
	}
	return sig, nil
}

func (s *Signer) PublicKey() []byte {
	return append([]byte(nil), s.publicKey...)
}

func (s *Signer) KeyAttestation() string {
	return s.attestation
}

func (s *Signer) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.addr+path, nil)
	if err != nil {
		return err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("key agent: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ domain.Signer = (*Signer)(nil)
var _ domain.KeyAttester = (*Signer)(nil)

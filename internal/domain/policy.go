package domain

import "encoding/json"

// PolicyInput is what the capture-acceptance gate sees before attestation is
// requested. Metadata is passed through opaque, the same blob the claim will
// later carry.
type PolicyInput struct {
	ImageWidth  int             `json:"image_width"`
	ImageHeight int             `json:"image_height"`
	TileSize    int             `json:"tile_size"`
	TileCount   int             `json:"tile_count"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

type PolicyViolation struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type PolicyDecision struct {
	Allow bool              `json:"allow"`
	Deny  []PolicyViolation `json:"deny,omitempty"`
}

package domain

import "time"

// VerificationEvent is an audit record of one verification call on the
// service side. Events never influence verdicts.
type VerificationEvent struct {
	Mode       string // "full" or "crop"
	MerkleRoot string
	Valid      bool
	Reason     VerificationReason
	ClientIP   string
	OccurredAt time.Time
}

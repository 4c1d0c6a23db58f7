package domain

// VerificationReason explains a rejected verification. Reasons are terminal
// verdicts returned to the caller, not errors: there is nothing to retry
// after a cryptographic mismatch.
type VerificationReason string

const (
	ReasonNone                   VerificationReason = ""
	ReasonRootMismatch           VerificationReason = "root_mismatch"
	ReasonSignatureInvalid       VerificationReason = "signature_invalid"
	ReasonProofInvalid           VerificationReason = "proof_invalid"
	ReasonIncompleteCropCoverage VerificationReason = "incomplete_crop_coverage"
	ReasonDimensionMismatch      VerificationReason = "dimension_mismatch"
)

type VerificationResult struct {
	Valid  bool               `json:"valid"`
	Reason VerificationReason `json:"reason,omitempty"`
}

func Accept() VerificationResult {
	return VerificationResult{Valid: true}
}

func Reject(reason VerificationReason) VerificationResult {
	return VerificationResult{Valid: false, Reason: reason}
}

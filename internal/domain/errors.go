package domain

import "errors"

var (
	ErrInvalidImageDimensions = errors.New("invalid image dimensions")
	ErrSigningFailed          = errors.New("signing failed")
	ErrInvalidClaim           = errors.New("invalid claim")
	ErrInvalidCrop            = errors.New("invalid crop request")
	ErrPolicyRejected         = errors.New("capture rejected by policy")
	ErrNotFound               = errors.New("not found")
)

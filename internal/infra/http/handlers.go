package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aperture/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type storeClaimResponse struct {
	ClaimID string `json:"claim_id"`
}

type listClaimsResponse struct {
	Claims []domain.AttestationClaim `json:"claims"`
}

// imagePayload carries a fully disclosed image as raw canonical RGBA bytes,
// base64 in transit. Decoding from PNG or JPEG happens on the client side.
type imagePayload struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels []byte `json:"pixels"`
}

func (p imagePayload) toImage() (domain.Image, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return domain.Image{}, domain.ErrInvalidImageDimensions
	}
	if len(p.Pixels) != p.Width*p.Height*4 {
		return domain.Image{}, domain.ErrInvalidImageDimensions
	}
	return domain.Image{Width: p.Width, Height: p.Height, Pix: p.Pixels}, nil
}

type verifyFullRequest struct {
	Claim domain.AttestationClaim `json:"claim"`
	Image imagePayload            `json:"image"`
}

type verifyCropRequest struct {
	Claim  domain.AttestationClaim `json:"claim"`
	Bundle domain.CropBundle       `json:"bundle"`
}

func (s *Server) handleStoreClaim(c *gin.Context) {
	if s.claims == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "NO_STORE", "claim store not configured")
		return
	}
	var claim domain.AttestationClaim
	if err := c.ShouldBindJSON(&claim); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if err := claim.Validate(); err != nil {
		writeError(c, err)
		return
	}
	id, err := s.claims.Save(c.Request.Context(), claim)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, storeClaimResponse{ClaimID: id})
}

func (s *Server) handleGetClaim(c *gin.Context) {
	if s.claims == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "NO_STORE", "claim store not configured")
		return
	}
	claim, err := s.claims.GetByID(c.Request.Context(), c.Param("claim_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (s *Server) handleListClaims(c *gin.Context) {
	if s.claims == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "NO_STORE", "claim store not configured")
		return
	}
	publicKey := c.Query("public_key")
	if publicKey == "" {
		writeErrorCode(c, http.StatusBadRequest, "MISSING_PUBLIC_KEY", "public_key query parameter is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	claims, err := s.claims.ListByPublicKey(c.Request.Context(), publicKey, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listClaimsResponse{Claims: claims})
}

func (s *Server) handleVerifyFull(c *gin.Context) {
	var req verifyFullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	img, err := req.Image.toImage()
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := s.full.Verify(c.Request.Context(), req.Claim, img)
	if err != nil {
		writeError(c, err)
		return
	}
	s.recordEvent(c, "full", req.Claim.MerkleRoot, result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleVerifyCrop(c *gin.Context) {
	var req verifyCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	result, err := s.crop.Verify(c.Request.Context(), req.Claim, req.Bundle)
	if err != nil {
		writeError(c, err)
		return
	}
	s.recordEvent(c, "crop", req.Claim.MerkleRoot, result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) recordEvent(c *gin.Context, mode, root string, result domain.VerificationResult) {
	if s.events == nil {
		return
	}
	event := domain.VerificationEvent{
		Mode:       mode,
		MerkleRoot: root,
		Valid:      result.Valid,
		Reason:     result.Reason,
		ClientIP:   c.ClientIP(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.RecordVerification(c.Request.Context(), event); err != nil {
		s.log.Warn("record verification event", zap.Error(err))
	}
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidClaim):
		status, code = http.StatusBadRequest, "INVALID_CLAIM"
	case errors.Is(err, domain.ErrInvalidCrop):
		status, code = http.StatusBadRequest, "INVALID_CROP"
	case errors.Is(err, domain.ErrInvalidImageDimensions):
		status, code = http.StatusBadRequest, "INVALID_IMAGE"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	}
	c.JSON(status, errorResponse{Code: code, Message: err.Error()})
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Code: code, Message: message})
}

package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simdok/simdok-api/internal/dto"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/response"
	"github.com/simdok/simdok-api/pkg/storage"
)

type documentTracker interface {
	Track(ctx context.Context, code string) (*dto.TrackResponse, error)
}

// TrackHandler serves the public tracking endpoints. No authentication is
// required; responses never expose internal IDs or file paths.
type TrackHandler struct {
	service documentTracker
	signer  *storage.SignedURLSigner
	files   *storage.LocalStorage
}

// NewTrackHandler creates a new handler.
func NewTrackHandler(svc documentTracker, signer *storage.SignedURLSigner, files *storage.LocalStorage) *TrackHandler {
	return &TrackHandler{service: svc, signer: signer, files: files}
}

// Track godoc
// @Summary Track a document
// @Description Public document status lookup by external code
// @Tags Tracking
// @Produce json
// @Param code path string true "Document code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /track/{code} [get]
func (h *TrackHandler) Track(c *gin.Context) {
	res, err := h.service.Track(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// QRCode godoc
// @Summary Download tracking QR code
// @Description Serve the QR code image referenced by a signed token
// @Tags Tracking
// @Produce png
// @Param code path string true "Document code"
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /track/{code}/qr [get]
func (h *TrackHandler) QRCode(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "download token is required"))
		return
	}

	_, relPath, _, err := h.signer.Parse(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token"))
		return
	}

	file, err := h.files.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	defer file.Close()

	c.Header("Cache-Control", "no-store")
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

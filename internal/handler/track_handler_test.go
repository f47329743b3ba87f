package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdok/simdok-api/internal/dto"
	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/storage"
)

type documentTrackerMock struct {
	resp *dto.TrackResponse
	err  error
}

func (m *documentTrackerMock) Track(ctx context.Context, code string) (*dto.TrackResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func TestTrackHandlerPublicLookup(t *testing.T) {
	mockSvc := &documentTrackerMock{resp: &dto.TrackResponse{
		Code:              "DOC-2026-00001",
		Status:            models.DocumentStatusInMovement,
		CurrentDepartment: "Records",
	}}
	handler := NewTrackHandler(mockSvc, nil, nil)

	c, w := testContext(t, http.MethodGet, "/track/DOC-2026-00001", nil)
	c.Params = gin.Params{{Key: "code", Value: "DOC-2026-00001"}}

	handler.Track(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DOC-2026-00001")
	assert.Contains(t, w.Body.String(), "Records")
}

func TestTrackHandlerUnknownCode(t *testing.T) {
	mockSvc := &documentTrackerMock{err: appErrors.ErrNotFound}
	handler := NewTrackHandler(mockSvc, nil, nil)

	c, w := testContext(t, http.MethodGet, "/track/DOC-2026-99999", nil)
	c.Params = gin.Params{{Key: "code", Value: "DOC-2026-99999"}}

	handler.Track(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackHandlerQRCodeServesSignedFile(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	_, err = files.Save("qr/DOC-2026-00001.png", []byte("png-bytes"))
	require.NoError(t, err)

	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	token, _, err := signer.Generate("doc-1", "qr/DOC-2026-00001.png")
	require.NoError(t, err)

	handler := NewTrackHandler(&documentTrackerMock{}, signer, files)

	c, w := testContext(t, http.MethodGet, "/track/DOC-2026-00001/qr?token="+token, nil)
	c.Params = gin.Params{{Key: "code", Value: "DOC-2026-00001"}}

	handler.QRCode(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())
}

func TestTrackHandlerQRCodeRejectsBadToken(t *testing.T) {
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	handler := NewTrackHandler(&documentTrackerMock{}, signer, nil)

	c, w := testContext(t, http.MethodGet, "/track/DOC-2026-00001/qr?token=forged.token.value.sig", nil)
	c.Params = gin.Params{{Key: "code", Value: "DOC-2026-00001"}}

	handler.QRCode(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	c2, w2 := testContext(t, http.MethodGet, "/track/DOC-2026-00001/qr", nil)
	c2.Params = gin.Params{{Key: "code", Value: "DOC-2026-00001"}}

	handler.QRCode(c2)
	require.Equal(t, http.StatusUnauthorized, w2.Code)
}

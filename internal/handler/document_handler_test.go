package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdok/simdok-api/internal/dto"
	"github.com/simdok/simdok-api/internal/middleware"
	"github.com/simdok/simdok-api/internal/models"
	"github.com/simdok/simdok-api/internal/service"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
)

type documentWorkflowMock struct {
	uploadResp  *models.Document
	uploadErr   error
	moveResp    *models.Document
	moveErr     error
	decideResp  *models.Document
	decideErr   error
	doneResp    *models.Document
	doneErr     error
	listResp    []models.Document
	historyResp *dto.DocumentHistoryResponse

	lastUpload service.DocumentUpload
	lastQuery  dto.DocumentQuery
	lastMove   dto.MoveDocumentRequest
	lastDecide dto.DecideDocumentRequest

	uploadCalled bool
	moveCalled   bool
	decideCalled bool
	doneCalled   bool
}

func (m *documentWorkflowMock) Upload(ctx context.Context, req dto.UploadDocumentRequest, upload service.DocumentUpload, actor *models.JWTClaims) (*models.Document, error) {
	m.uploadCalled = true
	m.lastUpload = upload
	return m.uploadResp, m.uploadErr
}

func (m *documentWorkflowMock) Move(ctx context.Context, documentID string, req dto.MoveDocumentRequest, actor *models.JWTClaims) (*models.Document, error) {
	m.moveCalled = true
	m.lastMove = req
	return m.moveResp, m.moveErr
}

func (m *documentWorkflowMock) Decide(ctx context.Context, documentID string, req dto.DecideDocumentRequest, actor *models.JWTClaims) (*models.Document, error) {
	m.decideCalled = true
	m.lastDecide = req
	return m.decideResp, m.decideErr
}

func (m *documentWorkflowMock) MarkDone(ctx context.Context, documentID string, req dto.MarkDoneRequest, actor *models.JWTClaims) (*models.Document, error) {
	m.doneCalled = true
	return m.doneResp, m.doneErr
}

func (m *documentWorkflowMock) Get(ctx context.Context, documentID string, actor *models.JWTClaims) (*models.Document, error) {
	if m.uploadResp == nil {
		return nil, appErrors.ErrNotFound
	}
	return m.uploadResp, nil
}

func (m *documentWorkflowMock) List(ctx context.Context, query dto.DocumentQuery, page, pageSize int, actor *models.JWTClaims) ([]models.Document, *models.Pagination, error) {
	m.lastQuery = query
	return m.listResp, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(m.listResp)}, nil
}

func (m *documentWorkflowMock) History(ctx context.Context, documentID string, actor *models.JWTClaims) (*dto.DocumentHistoryResponse, error) {
	if m.historyResp == nil {
		return nil, appErrors.ErrNotFound
	}
	return m.historyResp, nil
}

type exporterMock struct {
	file *service.ExportFile
	err  error
}

func (m *exporterMock) MovementHistory(ctx context.Context, documentID, format string, actor *models.JWTClaims) (*service.ExportFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.file, nil
}

type recorderMock struct {
	operations []string
	outcomes   []bool
}

func (m *recorderMock) RecordWorkflowOperation(operation string, success bool) {
	m.operations = append(m.operations, operation)
	m.outcomes = append(m.outcomes, success)
}

func testContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "clerk-1", Role: models.RoleClerk, Department: "Planning"})
	return c, w
}

func TestDocumentHandlerUploadMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &documentWorkflowMock{uploadResp: &models.Document{ID: "doc-1", Code: "DOC-2026-00001"}}
	recorder := &recorderMock{}
	handler := NewDocumentHandler(mockSvc, &exporterMock{}, recorder)

	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)
	require.NoError(t, form.WriteField("title", "Permit A"))
	require.NoError(t, form.WriteField("type", "PERMIT"))
	require.NoError(t, form.WriteField("department", "Planning"))
	require.NoError(t, form.WriteField("final_destination", "Records"))
	part, err := form.CreateFormFile("file", "permit.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7 content"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/documents", buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "clerk-1", Role: models.RoleClerk})

	handler.Upload(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.uploadCalled)
	assert.Equal(t, "permit.pdf", mockSvc.lastUpload.Filename)
	assert.Equal(t, []string{"upload"}, recorder.operations)
	assert.Equal(t, []bool{true}, recorder.outcomes)
}

func TestDocumentHandlerUploadMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &documentWorkflowMock{}
	handler := NewDocumentHandler(mockSvc, &exporterMock{}, &recorderMock{})

	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)
	require.NoError(t, form.WriteField("title", "Permit A"))
	require.NoError(t, form.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/documents", buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.Request = req

	handler.Upload(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.uploadCalled)
}

func TestDocumentHandlerMove(t *testing.T) {
	mockSvc := &documentWorkflowMock{moveResp: &models.Document{ID: "doc-1", CurrentDepartment: "Records"}}
	recorder := &recorderMock{}
	handler := NewDocumentHandler(mockSvc, &exporterMock{}, recorder)

	payload, _ := json.Marshal(dto.MoveDocumentRequest{ToDepartment: "Records", Note: "routing"})
	c, w := testContext(t, http.MethodPost, "/documents/doc-1/move", payload)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.Move(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.moveCalled)
	assert.Equal(t, "Records", mockSvc.lastMove.ToDepartment)
	assert.Equal(t, []string{"move"}, recorder.operations)
}

func TestDocumentHandlerMoveConflict(t *testing.T) {
	mockSvc := &documentWorkflowMock{moveErr: appErrors.ErrConflict}
	recorder := &recorderMock{}
	handler := NewDocumentHandler(mockSvc, &exporterMock{}, recorder)

	payload, _ := json.Marshal(dto.MoveDocumentRequest{ToDepartment: "Records"})
	c, w := testContext(t, http.MethodPost, "/documents/doc-1/move", payload)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.Move(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, []bool{false}, recorder.outcomes)
}

func TestDocumentHandlerDecideInvalidBody(t *testing.T) {
	mockSvc := &documentWorkflowMock{}
	handler := NewDocumentHandler(mockSvc, &exporterMock{}, &recorderMock{})

	c, w := testContext(t, http.MethodPost, "/documents/doc-1/decision", []byte(`{"decision":`))
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.Decide(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.decideCalled)
}

func TestDocumentHandlerDecide(t *testing.T) {
	mockSvc := &documentWorkflowMock{decideResp: &models.Document{ID: "doc-1", Status: models.DocumentStatusRejected}}
	handler := NewDocumentHandler(mockSvc, &exporterMock{}, &recorderMock{})

	payload, _ := json.Marshal(dto.DecideDocumentRequest{Decision: models.DecisionReject, Comment: "Missing signature"})
	c, w := testContext(t, http.MethodPost, "/documents/doc-1/decision", payload)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.Decide(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DecisionReject, mockSvc.lastDecide.Decision)
	assert.Equal(t, "Missing signature", mockSvc.lastDecide.Comment)
}

func TestDocumentHandlerMarkDoneEmptyBody(t *testing.T) {
	mockSvc := &documentWorkflowMock{doneResp: &models.Document{ID: "doc-1", Status: models.DocumentStatusDone}}
	handler := NewDocumentHandler(mockSvc, &exporterMock{}, &recorderMock{})

	c, w := testContext(t, http.MethodPost, "/documents/doc-1/done", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.MarkDone(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.doneCalled)
}

func TestDocumentHandlerListParsesStatuses(t *testing.T) {
	mockSvc := &documentWorkflowMock{listResp: []models.Document{{ID: "doc-1"}}}
	handler := NewDocumentHandler(mockSvc, &exporterMock{}, &recorderMock{})

	c, w := testContext(t, http.MethodGet, "/documents?status=pending,in_movement&department=Records", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.DocumentStatus{models.DocumentStatusPending, models.DocumentStatusInMovement}, mockSvc.lastQuery.Status)
	assert.Equal(t, "Records", mockSvc.lastQuery.Department)
}

func TestDocumentHandlerExport(t *testing.T) {
	handler := NewDocumentHandler(&documentWorkflowMock{}, &exporterMock{file: &service.ExportFile{
		Filename:    "DOC-2026-00001_movements.csv",
		ContentType: "text/csv",
		Data:        []byte("From,To\n"),
	}}, &recorderMock{})

	c, w := testContext(t, http.MethodGet, "/documents/doc-1/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "DOC-2026-00001_movements.csv")
	assert.Equal(t, "From,To\n", w.Body.String())
}

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simdok/simdok-api/internal/dto"
	"github.com/simdok/simdok-api/internal/models"
	"github.com/simdok/simdok-api/internal/service"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/response"
)

type documentWorkflow interface {
	Upload(ctx context.Context, req dto.UploadDocumentRequest, upload service.DocumentUpload, actor *models.JWTClaims) (*models.Document, error)
	Move(ctx context.Context, documentID string, req dto.MoveDocumentRequest, actor *models.JWTClaims) (*models.Document, error)
	Decide(ctx context.Context, documentID string, req dto.DecideDocumentRequest, actor *models.JWTClaims) (*models.Document, error)
	MarkDone(ctx context.Context, documentID string, req dto.MarkDoneRequest, actor *models.JWTClaims) (*models.Document, error)
	Get(ctx context.Context, documentID string, actor *models.JWTClaims) (*models.Document, error)
	List(ctx context.Context, query dto.DocumentQuery, page, pageSize int, actor *models.JWTClaims) ([]models.Document, *models.Pagination, error)
	History(ctx context.Context, documentID string, actor *models.JWTClaims) (*dto.DocumentHistoryResponse, error)
}

type movementExporter interface {
	MovementHistory(ctx context.Context, documentID, format string, actor *models.JWTClaims) (*service.ExportFile, error)
}

type workflowRecorder interface {
	RecordWorkflowOperation(operation string, success bool)
}

// DocumentHandler exposes the document workflow endpoints.
type DocumentHandler struct {
	service documentWorkflow
	export  movementExporter
	metrics workflowRecorder
}

// NewDocumentHandler creates a new handler.
func NewDocumentHandler(svc documentWorkflow, export movementExporter, metrics workflowRecorder) *DocumentHandler {
	return &DocumentHandler{service: svc, export: export, metrics: metrics}
}

// Upload godoc
// @Summary Upload a document
// @Description Register a new PDF document entering the workflow
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Param title formData string true "Document title"
// @Param type formData string true "Document type"
// @Param department formData string true "Origin department"
// @Param final_destination formData string true "Final destination department"
// @Param submitter_id formData string false "Submitter user ID"
// @Param trail_id formData string false "Trail to follow"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	var req dto.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid upload payload"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to open upload"))
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request.Context(), req, service.DocumentUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	}, claimsFromContext(c))
	h.record("upload", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, doc)
}

// List godoc
// @Summary List documents
// @Description List documents visible to the caller with optional filters
// @Tags Documents
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param department query string false "Current department"
// @Param type query string false "Document type"
// @Param search query string false "Search in title and code"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	query := dto.DocumentQuery{
		Department: c.Query("department"),
		Type:       c.Query("type"),
		Search:     c.Query("search"),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s != "" {
				query.Status = append(query.Status, models.DocumentStatus(s))
			}
		}
	}
	page, pageSize := pageParams(c)

	docs, pagination, err := h.service.List(c.Request.Context(), query, page, pageSize, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, docs, pagination)
}

// Get godoc
// @Summary Get a document
// @Description Fetch a single document by ID
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, doc, nil)
}

// History godoc
// @Summary Document history
// @Description Fetch a document with its movement and approval ledgers
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{id}/history [get]
func (h *DocumentHandler) History(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, history, nil)
}

// Move godoc
// @Summary Move a document
// @Description Transfer a document to another department
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param payload body dto.MoveDocumentRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /documents/{id}/move [post]
func (h *DocumentHandler) Move(c *gin.Context) {
	var req dto.MoveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid move payload"))
		return
	}

	doc, err := h.service.Move(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	h.record("move", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, doc, nil)
}

// Decide godoc
// @Summary Decide on a document
// @Description Record an APPROVE or REJECT decision
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param payload body dto.DecideDocumentRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /documents/{id}/decision [post]
func (h *DocumentHandler) Decide(c *gin.Context) {
	var req dto.DecideDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	doc, err := h.service.Decide(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	h.record("decide", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, doc, nil)
}

// MarkDone godoc
// @Summary Complete a document
// @Description Mark a document as DONE, closing the workflow
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param payload body dto.MarkDoneRequest true "Completion payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /documents/{id}/done [post]
func (h *DocumentHandler) MarkDone(c *gin.Context) {
	var req dto.MarkDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completion payload"))
		return
	}

	doc, err := h.service.MarkDone(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	h.record("mark_done", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, doc, nil)
}

// Export godoc
// @Summary Export movement history
// @Description Download the movement ledger as CSV or PDF
// @Tags Documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Param format query string true "Export format (csv or pdf)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{id}/export [get]
func (h *DocumentHandler) Export(c *gin.Context) {
	file, err := h.export.MovementHistory(c.Request.Context(), c.Param("id"), c.Query("format"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *DocumentHandler) record(operation string, err error) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordWorkflowOperation(operation, err == nil)
}

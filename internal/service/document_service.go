package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/simdok/simdok-api/internal/dto"
	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/qrcode"
)

type documentStore interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	GetByCode(ctx context.Context, code string) (*models.Document, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error)
	UpdateLocationTx(ctx context.Context, tx *sqlx.Tx, id, fromDepartment, toDepartment string, step *int) error
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id string, status models.DocumentStatus) error
	SetQRCodePath(ctx context.Context, id, path string) error
}

type movementLedger interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, movement *models.Movement) error
	ListByDocument(ctx context.Context, documentID string) ([]models.Movement, error)
}

type approvalLedger interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, approval *models.Approval) error
	ListByDocument(ctx context.Context, documentID string) ([]models.Approval, error)
}

type trailResolver interface {
	GetByID(ctx context.Context, id string) (*models.Trail, error)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type txRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type submitterNotifier interface {
	Enqueue(recipientID, documentID, message string) error
}

type documentFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
}

type trackingArtifactGenerator interface {
	RenderPNG(p qrcode.Payload) ([]byte, error)
}

// DocumentUpload carries upload metadata and the file content.
type DocumentUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// DocumentServiceConfig holds validation parameters for the workflow.
type DocumentServiceConfig struct {
	MaxFileSize  int64
	CodeAttempts int
}

// roleGates is the single authorization table for workflow mutations.
// Upload is open to any authenticated actor and is not listed here.
var roleGates = map[string][]models.UserRole{
	"move":      {models.RoleAdmin, models.RoleClerk, models.RoleSupervisor},
	"decide":    {models.RoleAdmin, models.RoleSupervisor, models.RoleManager},
	"mark_done": {models.RoleAdmin, models.RoleSupervisor},
}

// DocumentService orchestrates the document lifecycle: upload, movement,
// decision, and completion. It owns every write to documents, movements and
// approvals; ledger appends and status updates for one operation share a
// transaction, while notifications, tracking artifacts and audit entries are
// emitted best effort after commit.
type DocumentService struct {
	tx        txRunner
	docs      documentStore
	movements movementLedger
	approvals approvalLedger
	trails    trailResolver
	notifier  submitterNotifier
	audit     auditLogger
	storage   documentFileStorage
	artifacts trackingArtifactGenerator
	logger    *zap.Logger
	cfg       DocumentServiceConfig
}

// NewDocumentService constructs the service with defaults.
func NewDocumentService(tx txRunner, docs documentStore, movements movementLedger, approvals approvalLedger, trails trailResolver, notifier submitterNotifier, audit auditLogger, storage documentFileStorage, artifacts trackingArtifactGenerator, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = 5
	}
	return &DocumentService{
		tx:        tx,
		docs:      docs,
		movements: movements,
		approvals: approvals,
		trails:    trails,
		notifier:  notifier,
		audit:     audit,
		storage:   storage,
		artifacts: artifacts,
		logger:    logger,
		cfg:       cfg,
	}
}

// Upload registers a new document in PENDING state. When a trail is given and
// its first step differs from the upload department, the document starts at
// the step department with a synthesized movement record.
func (s *DocumentService) Upload(ctx context.Context, req dto.UploadDocumentRequest, upload DocumentUpload, actor *models.JWTClaims) (*models.Document, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := validateUploadRequest(req); err != nil {
		return nil, err
	}
	content, err := s.readPDF(upload)
	if err != nil {
		return nil, err
	}

	submitterID := normalizeRef(req.SubmitterID)
	if actor.Role == models.RoleClient || actor.Role == models.RoleContractor {
		submitterID = &actor.UserID
	}

	department := strings.TrimSpace(req.Department)
	var trailID *string
	var trailStep *int
	var seeded *models.Movement
	if strings.TrimSpace(req.TrailID) != "" {
		trail, err := s.resolveTrail(ctx, req.TrailID)
		if err != nil {
			return nil, err
		}
		trailID = &trail.ID
		first := trail.Steps[0]
		step := 1
		trailStep = &step
		if first.Department != department {
			seeded = &models.Movement{
				FromDepartment: department,
				ToDepartment:   first.Department,
				MovedBy:        actor.UserID,
			}
			department = first.Department
		}
	}

	doc := &models.Document{
		Title:             strings.TrimSpace(req.Title),
		Type:              strings.ToUpper(strings.TrimSpace(req.Type)),
		OriginDepartment:  strings.TrimSpace(req.Department),
		FinalDestination:  strings.TrimSpace(req.FinalDestination),
		CurrentDepartment: department,
		Status:            models.DocumentStatusPending,
		SubmitterID:       submitterID,
		TrailID:           trailID,
		CurrentTrailStep:  trailStep,
		FileMime:          "application/pdf",
		FileSize:          int64(len(content)),
		UploadedBy:        actor.UserID,
	}

	if err := s.createWithUniqueCode(ctx, doc, seeded, content); err != nil {
		return nil, err
	}

	if doc.SubmitterID != nil {
		s.notify(*doc.SubmitterID, doc.ID, fmt.Sprintf("Document %s (%s) has been submitted and is pending review", doc.Code, doc.Title))
		s.generateTrackingArtifact(ctx, doc)
	}
	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionDocumentUpload,
		Resource:   "document",
		ResourceID: &doc.ID,
		NewValues:  []byte(fmt.Sprintf(`{"code":"%s","department":"%s"}`, doc.Code, doc.CurrentDepartment)),
	})
	return doc, nil
}

// Move transfers a document to another department, appending a movement
// record and flipping the status to IN_MOVEMENT.
func (s *DocumentService) Move(ctx context.Context, documentID string, req dto.MoveDocumentRequest, actor *models.JWTClaims) (*models.Document, error) {
	if err := authorize(actor, "move"); err != nil {
		return nil, err
	}
	to := strings.TrimSpace(req.ToDepartment)
	if to == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to_department is required")
	}
	doc, err := s.load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status.IsTerminal() {
		return nil, appErrors.ErrDone
	}
	if to == doc.CurrentDepartment {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document is already in that department")
	}

	step := s.nextTrailStep(ctx, doc, to)
	movement := &models.Movement{
		DocumentID:     doc.ID,
		FromDepartment: doc.CurrentDepartment,
		ToDepartment:   to,
		MovedBy:        actor.UserID,
		Note:           optionalString(req.Note),
	}
	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.movements.CreateTx(ctx, tx, movement); err != nil {
			return err
		}
		return s.docs.UpdateLocationTx(ctx, tx, doc.ID, doc.CurrentDepartment, to, step)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "document was moved by someone else, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move document")
	}

	from := doc.CurrentDepartment
	doc.CurrentDepartment = to
	doc.Status = models.DocumentStatusInMovement
	if step != nil {
		doc.CurrentTrailStep = step
	}

	if doc.SubmitterID != nil {
		s.notify(*doc.SubmitterID, doc.ID, fmt.Sprintf("Document %s moved from %s to %s", doc.Code, from, to))
	}
	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionDocumentMove,
		Resource:   "document",
		ResourceID: &doc.ID,
		OldValues:  []byte(fmt.Sprintf(`{"department":"%s"}`, from)),
		NewValues:  []byte(fmt.Sprintf(`{"department":"%s"}`, to)),
	})
	return doc, nil
}

// Decide records an approve or reject decision on a document.
func (s *DocumentService) Decide(ctx context.Context, documentID string, req dto.DecideDocumentRequest, actor *models.JWTClaims) (*models.Document, error) {
	if err := authorize(actor, "decide"); err != nil {
		return nil, err
	}
	if req.Decision != models.DecisionApprove && req.Decision != models.DecisionReject {
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision must be APPROVE or REJECT")
	}
	doc, err := s.load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status.IsTerminal() {
		return nil, appErrors.ErrDone
	}

	status := models.DocumentStatusApproved
	action := models.AuditActionDocumentApprove
	if req.Decision == models.DecisionReject {
		status = models.DocumentStatusRejected
		action = models.AuditActionDocumentReject
	}
	approval := &models.Approval{
		DocumentID: doc.ID,
		DecidedBy:  actor.UserID,
		Decision:   req.Decision,
		Comment:    optionalString(req.Comment),
	}
	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.approvals.CreateTx(ctx, tx, approval); err != nil {
			return err
		}
		return s.docs.UpdateStatusTx(ctx, tx, doc.ID, status)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrDone
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record decision")
	}
	doc.Status = status

	if doc.SubmitterID != nil {
		verdict := "approved"
		if req.Decision == models.DecisionReject {
			verdict = "rejected"
		}
		message := fmt.Sprintf("Document %s has been %s", doc.Code, verdict)
		if comment := strings.TrimSpace(req.Comment); comment != "" {
			message = fmt.Sprintf("%s: %s", message, comment)
		}
		s.notify(*doc.SubmitterID, doc.ID, message)
	}
	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     action,
		Resource:   "document",
		ResourceID: &doc.ID,
		NewValues:  []byte(fmt.Sprintf(`{"decision":"%s"}`, req.Decision)),
	})
	return doc, nil
}

// MarkDone completes a document. DONE is terminal; no further moves or
// decisions are accepted afterwards.
func (s *DocumentService) MarkDone(ctx context.Context, documentID string, req dto.MarkDoneRequest, actor *models.JWTClaims) (*models.Document, error) {
	if err := authorize(actor, "mark_done"); err != nil {
		return nil, err
	}
	doc, err := s.load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status.IsTerminal() {
		return nil, appErrors.ErrDone
	}

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		return s.docs.UpdateStatusTx(ctx, tx, doc.ID, models.DocumentStatusDone)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrDone
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete document")
	}
	doc.Status = models.DocumentStatusDone

	if doc.SubmitterID != nil {
		message := fmt.Sprintf("Document %s has been completed", doc.Code)
		if comment := strings.TrimSpace(req.Comment); comment != "" {
			message = fmt.Sprintf("%s: %s", message, comment)
		}
		s.notify(*doc.SubmitterID, doc.ID, message)
	}
	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionDocumentComplete,
		Resource:   "document",
		ResourceID: &doc.ID,
	})
	return doc, nil
}

// Get returns a document enforcing submitter scope for external roles.
func (s *DocumentService) Get(ctx context.Context, documentID string, actor *models.JWTClaims) (*models.Document, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	doc, err := s.load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := ensureDocumentScope(doc, actor); err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns documents visible to the actor. External roles only see their
// own submissions.
func (s *DocumentService) List(ctx context.Context, query dto.DocumentQuery, page, pageSize int, actor *models.JWTClaims) ([]models.Document, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	filter := models.DocumentFilter{
		Status:     query.Status,
		Department: strings.TrimSpace(query.Department),
		Type:       strings.ToUpper(strings.TrimSpace(query.Type)),
		Search:     strings.TrimSpace(query.Search),
		Page:       page,
		PageSize:   pageSize,
	}
	if actor.Role == models.RoleClient || actor.Role == models.RoleContractor {
		filter.SubmitterID = actor.UserID
	}
	docs, total, err := s.docs.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize <= 0 || pagination.PageSize > 100 {
		pagination.PageSize = 20
	}
	return docs, pagination, nil
}

// History returns a document with its full movement and approval ledgers.
func (s *DocumentService) History(ctx context.Context, documentID string, actor *models.JWTClaims) (*dto.DocumentHistoryResponse, error) {
	doc, err := s.Get(ctx, documentID, actor)
	if err != nil {
		return nil, err
	}
	movements, err := s.movements.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load movement history")
	}
	approvals, err := s.approvals.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approval history")
	}
	return &dto.DocumentHistoryResponse{Document: doc, Movements: movements, Approvals: approvals}, nil
}

func (s *DocumentService) load(ctx context.Context, documentID string) (*models.Document, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	return doc, nil
}

// createWithUniqueCode stores the file, then commits the document (plus any
// seeded trail movement) retrying with a fresh code on collision. The stored
// blob is removed best effort when no attempt commits.
func (s *DocumentService) createWithUniqueCode(ctx context.Context, doc *models.Document, seeded *models.Movement, content []byte) error {
	filename := fmt.Sprintf("documents/doc_%d_%s.pdf", time.Now().Unix(), randomSuffix())
	path, err := s.storage.Save(filename, content)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist document file")
	}
	doc.FilePath = path

	var lastErr error
	for attempt := 0; attempt < s.cfg.CodeAttempts; attempt++ {
		code, err := generateDocumentCode(time.Now().UTC())
		if err != nil {
			lastErr = err
			break
		}
		doc.ID = ""
		doc.Code = code
		lastErr = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
			if err := s.docs.CreateTx(ctx, tx, doc); err != nil {
				return err
			}
			if seeded != nil {
				seeded.ID = ""
				seeded.DocumentID = doc.ID
				return s.movements.CreateTx(ctx, tx, seeded)
			}
			return nil
		})
		if lastErr == nil {
			return nil
		}
		if !isUniqueViolation(lastErr) {
			break
		}
		s.logger.Warn("document code collision, retrying", zap.String("code", code), zap.Int("attempt", attempt+1))
	}
	_ = s.storage.Delete(path)
	return appErrors.Wrap(lastErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create document")
}

func (s *DocumentService) resolveTrail(ctx context.Context, trailID string) (*models.Trail, error) {
	if s.trails == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trails are not configured")
	}
	trail, err := s.trails.GetByID(ctx, strings.TrimSpace(trailID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "trail not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trail")
	}
	if !trail.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trail is inactive")
	}
	if len(trail.Steps) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trail has no steps")
	}
	return trail, nil
}

// nextTrailStep advances the trail pointer when the destination matches the
// next step on the document's assigned trail.
func (s *DocumentService) nextTrailStep(ctx context.Context, doc *models.Document, toDepartment string) *int {
	if doc.TrailID == nil || doc.CurrentTrailStep == nil || s.trails == nil {
		return nil
	}
	trail, err := s.trails.GetByID(ctx, *doc.TrailID)
	if err != nil {
		s.logger.Warn("failed to resolve trail for step tracking", zap.Error(err), zap.String("trail_id", *doc.TrailID))
		return nil
	}
	next := *doc.CurrentTrailStep + 1
	for _, step := range trail.Steps {
		if step.StepOrder == next && step.Department == toDepartment {
			return &next
		}
	}
	return nil
}

func (s *DocumentService) readPDF(upload DocumentUpload) ([]byte, error) {
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	content, err := io.ReadAll(io.LimitReader(upload.Content, s.cfg.MaxFileSize+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	if int64(len(content)) > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	if len(content) < 5 || string(content[:5]) != "%PDF-" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only PDF files are accepted")
	}
	return content, nil
}

// generateTrackingArtifact renders the scannable code for a submitted
// document and records its location. Failures are logged, never surfaced.
func (s *DocumentService) generateTrackingArtifact(ctx context.Context, doc *models.Document) {
	if s.artifacts == nil || doc.SubmitterID == nil {
		return
	}
	png, err := s.artifacts.RenderPNG(qrcode.Payload{
		Code:      doc.Code,
		Subject:   *doc.SubmitterID,
		IssuedAt:  time.Now().UTC(),
		TrackPath: fmt.Sprintf("/track/%s", doc.Code),
	})
	if err != nil {
		s.logger.Warn("failed to render tracking artifact", zap.Error(err), zap.String("code", doc.Code))
		return
	}
	path, err := s.storage.Save(fmt.Sprintf("qr/%s.png", doc.Code), png)
	if err != nil {
		s.logger.Warn("failed to store tracking artifact", zap.Error(err), zap.String("code", doc.Code))
		return
	}
	if err := s.docs.SetQRCodePath(ctx, doc.ID, path); err != nil {
		s.logger.Warn("failed to record tracking artifact path", zap.Error(err), zap.String("code", doc.Code))
		return
	}
	doc.QRCodePath = &path
}

func (s *DocumentService) notify(recipientID, documentID, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Enqueue(recipientID, documentID, message); err != nil {
		s.logger.Warn("failed to enqueue notification", zap.Error(err), zap.String("recipient_id", recipientID))
	}
}

func (s *DocumentService) emitAudit(ctx context.Context, log *models.AuditLog) {
	if s.audit == nil || log == nil {
		return
	}
	log.IPAddress = "system"
	log.UserAgent = "document-service"
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func authorize(actor *models.JWTClaims, operation string) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	allowed, ok := roleGates[operation]
	if !ok {
		return appErrors.ErrForbidden
	}
	for _, role := range allowed {
		if actor.Role == role {
			return nil
		}
	}
	return appErrors.ErrForbidden
}

func ensureDocumentScope(doc *models.Document, actor *models.JWTClaims) error {
	if actor.Role != models.RoleClient && actor.Role != models.RoleContractor {
		return nil
	}
	if doc.SubmitterID != nil && *doc.SubmitterID == actor.UserID {
		return nil
	}
	if doc.UploadedBy == actor.UserID {
		return nil
	}
	return appErrors.ErrForbidden
}

func validateUploadRequest(req dto.UploadDocumentRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if strings.TrimSpace(req.Type) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "type is required")
	}
	if strings.TrimSpace(req.Department) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "department is required")
	}
	if strings.TrimSpace(req.FinalDestination) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "final_destination is required")
	}
	return nil
}

// generateDocumentCode builds an external code in the DOC-YYYY-NNNNN form.
// Uniqueness is enforced by the database; callers retry on collision.
func generateDocumentCode(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", fmt.Errorf("generate document code: %w", err)
	}
	return fmt.Sprintf("DOC-%d-%05d", now.Year(), n.Int64()), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeRef(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/simdok/simdok-api/internal/dto"
	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
)

type trailStore interface {
	Create(ctx context.Context, trail *models.Trail) error
	Update(ctx context.Context, trail *models.Trail) error
	GetByID(ctx context.Context, id string) (*models.Trail, error)
	List(ctx context.Context, filter models.TrailFilter) ([]models.Trail, int, error)
	Deactivate(ctx context.Context, id string) error
}

// TrailService manages predefined department paths for documents.
type TrailService struct {
	repo   trailStore
	audit  auditLogger
	logger *zap.Logger
}

// NewTrailService constructs the service.
func NewTrailService(repo trailStore, audit auditLogger, logger *zap.Logger) *TrailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrailService{repo: repo, audit: audit, logger: logger}
}

// Create defines a new trail with its ordered steps.
func (s *TrailService) Create(ctx context.Context, req dto.CreateTrailRequest, actor *models.JWTClaims) (*models.Trail, error) {
	if err := ensureTrailAdmin(actor); err != nil {
		return nil, err
	}
	steps, err := buildSteps(req.Steps)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	trail := &models.Trail{
		Name:        strings.TrimSpace(req.Name),
		Description: optionalString(req.Description),
		Active:      true,
		CreatedBy:   actor.UserID,
		Steps:       steps,
	}
	if err := s.repo.Create(ctx, trail); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trail")
	}
	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionTrailCreate,
		Resource:   "trail",
		ResourceID: &trail.ID,
		NewValues:  []byte(fmt.Sprintf(`{"name":"%s","steps":%d}`, trail.Name, len(trail.Steps))),
	})
	return trail, nil
}

// Update replaces trail metadata and steps.
func (s *TrailService) Update(ctx context.Context, id string, req dto.UpdateTrailRequest, actor *models.JWTClaims) (*models.Trail, error) {
	if err := ensureTrailAdmin(actor); err != nil {
		return nil, err
	}
	steps, err := buildSteps(req.Steps)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trail")
	}
	existing.Name = strings.TrimSpace(req.Name)
	existing.Description = optionalString(req.Description)
	if req.Active != nil {
		existing.Active = *req.Active
	}
	existing.Steps = steps
	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trail")
	}
	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionTrailUpdate,
		Resource:   "trail",
		ResourceID: &existing.ID,
	})
	return existing, nil
}

// Get returns a trail with its steps.
func (s *TrailService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Trail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	trail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trail")
	}
	return trail, nil
}

// List returns trails matching the filter.
func (s *TrailService) List(ctx context.Context, filter models.TrailFilter, actor *models.JWTClaims) ([]models.Trail, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	trails, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trails")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize <= 0 || pagination.PageSize > 100 {
		pagination.PageSize = 20
	}
	return trails, pagination, nil
}

// Deactivate retires a trail. Documents already on it are unaffected.
func (s *TrailService) Deactivate(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := ensureTrailAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate trail")
	}
	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionTrailDelete,
		Resource:   "trail",
		ResourceID: &id,
	})
	return nil
}

func (s *TrailService) emitAudit(ctx context.Context, log *models.AuditLog) {
	if s.audit == nil || log == nil {
		return
	}
	log.IPAddress = "system"
	log.UserAgent = "trail-service"
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func ensureTrailAdmin(actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleSupervisor {
		return appErrors.ErrForbidden
	}
	return nil
}

func buildSteps(inputs []dto.TrailStepInput) ([]models.TrailStep, error) {
	if len(inputs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one step is required")
	}
	steps := make([]models.TrailStep, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		department := strings.TrimSpace(input.Department)
		if department == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("step %d department is required", i+1))
		}
		if _, dup := seen[department]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("department %s appears more than once", department))
		}
		seen[department] = struct{}{}
		steps = append(steps, models.TrailStep{StepOrder: i + 1, Department: department})
	}
	return steps, nil
}

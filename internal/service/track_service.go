package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/simdok/simdok-api/internal/dto"
	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
)

type trackDocumentStore interface {
	GetByCode(ctx context.Context, code string) (*models.Document, error)
}

type trackMovementLister interface {
	ListByDocument(ctx context.Context, documentID string) ([]models.Movement, error)
}

type trackArtifactSigner interface {
	Generate(documentID, relPath string) (string, time.Time, error)
}

type cacheRecorder interface {
	RecordCacheOperation(hit bool)
}

// TrackServiceConfig controls the public tracking endpoint.
type TrackServiceConfig struct {
	CacheTTL  time.Duration
	APIPrefix string
}

// TrackService resolves public document status by external code. Responses
// are cached in Redis when a client is configured; lookups fall through to
// the database on any cache failure.
type TrackService struct {
	docs      trackDocumentStore
	movements trackMovementLister
	signer    trackArtifactSigner
	cache     *redis.Client
	metrics   cacheRecorder
	logger    *zap.Logger
	cfg       TrackServiceConfig
}

// NewTrackService constructs the service. The cache client may be nil.
func NewTrackService(docs trackDocumentStore, movements trackMovementLister, signer trackArtifactSigner, cache *redis.Client, metrics cacheRecorder, logger *zap.Logger, cfg TrackServiceConfig) *TrackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &TrackService{
		docs:      docs,
		movements: movements,
		signer:    signer,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Track returns the public view of a document keyed by its external code.
func (s *TrackService) Track(ctx context.Context, code string) (*dto.TrackResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "tracking code is required")
	}

	if cached := s.fromCache(ctx, code); cached != nil {
		return cached, nil
	}

	doc, err := s.docs.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no document matches that tracking code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up document")
	}
	movements, err := s.movements.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load movement history")
	}

	response := &dto.TrackResponse{
		Code:              doc.Code,
		Title:             doc.Title,
		Type:              doc.Type,
		Status:            doc.Status,
		CurrentDepartment: doc.CurrentDepartment,
		FinalDestination:  doc.FinalDestination,
		Movements:         movements,
	}
	if doc.QRCodePath != nil && s.signer != nil {
		token, _, err := s.signer.Generate(doc.ID, *doc.QRCodePath)
		if err != nil {
			s.logger.Warn("failed to sign tracking artifact url", zap.Error(err), zap.String("code", doc.Code))
		} else {
			base := strings.TrimRight(s.cfg.APIPrefix, "/")
			response.QRCodeURL = fmt.Sprintf("%s/track/%s/qr?token=%s", base, doc.Code, token)
		}
	}

	s.toCache(ctx, code, response)
	return response, nil
}

func (s *TrackService) fromCache(ctx context.Context, code string) *dto.TrackResponse {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, trackCacheKey(code)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("tracking cache read failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
		return nil
	}
	var response dto.TrackResponse
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		s.logger.Warn("tracking cache entry corrupted", zap.Error(err), zap.String("code", code))
		return nil
	}
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(true)
	}
	return &response
}

func (s *TrackService) toCache(ctx context.Context, code string, response *dto.TrackResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, trackCacheKey(code), raw, s.cfg.CacheTTL).Err(); err != nil {
		s.logger.Warn("tracking cache write failed", zap.Error(err))
	}
}

func trackCacheKey(code string) string {
	return "track:" + code
}

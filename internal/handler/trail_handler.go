package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simdok/simdok-api/internal/dto"
	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/response"
)

type trailManager interface {
	Create(ctx context.Context, req dto.CreateTrailRequest, actor *models.JWTClaims) (*models.Trail, error)
	Update(ctx context.Context, id string, req dto.UpdateTrailRequest, actor *models.JWTClaims) (*models.Trail, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Trail, error)
	List(ctx context.Context, filter models.TrailFilter, actor *models.JWTClaims) ([]models.Trail, *models.Pagination, error)
	Deactivate(ctx context.Context, id string, actor *models.JWTClaims) error
}

// TrailHandler exposes trail administration endpoints.
type TrailHandler struct {
	service trailManager
}

// NewTrailHandler creates a new handler.
func NewTrailHandler(svc trailManager) *TrailHandler {
	return &TrailHandler{service: svc}
}

// Create godoc
// @Summary Create a trail
// @Description Define a new ordered department path for documents
// @Tags Trails
// @Accept json
// @Produce json
// @Param payload body dto.CreateTrailRequest true "Trail payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /trails [post]
func (h *TrailHandler) Create(c *gin.Context) {
	var req dto.CreateTrailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid trail payload"))
		return
	}

	trail, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, trail)
}

// Update godoc
// @Summary Update a trail
// @Description Replace trail metadata and steps
// @Tags Trails
// @Accept json
// @Produce json
// @Param id path string true "Trail ID"
// @Param payload body dto.UpdateTrailRequest true "Trail payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /trails/{id} [put]
func (h *TrailHandler) Update(c *gin.Context) {
	var req dto.UpdateTrailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid trail payload"))
		return
	}

	trail, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, trail, nil)
}

// Get godoc
// @Summary Get a trail
// @Description Fetch a trail with its ordered steps
// @Tags Trails
// @Produce json
// @Param id path string true "Trail ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /trails/{id} [get]
func (h *TrailHandler) Get(c *gin.Context) {
	trail, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, trail, nil)
}

// List godoc
// @Summary List trails
// @Description List trails with optional active filter
// @Tags Trails
// @Produce json
// @Param active query bool false "Only active trails"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /trails [get]
func (h *TrailHandler) List(c *gin.Context) {
	filter := models.TrailFilter{}
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	filter.Page, filter.PageSize = pageParams(c)

	trails, pagination, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, trails, pagination)
}

// Deactivate godoc
// @Summary Deactivate a trail
// @Description Retire a trail from new document assignments
// @Tags Trails
// @Produce json
// @Param id path string true "Trail ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /trails/{id} [delete]
func (h *TrailHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

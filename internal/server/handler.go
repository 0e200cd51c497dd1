package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/limaJavier/cttfeatures/internal/cache"
	"github.com/limaJavier/cttfeatures/pkg/dataset"
	"github.com/limaJavier/cttfeatures/pkg/model"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type DocumentRequest struct {
	Name    string `json:"name" binding:"required,max=128"`
	Content string `json:"content" binding:"required"`
}

type BatchRequest struct {
	Documents []DocumentRequest `json:"documents" binding:"required,min=1,max=64,dive"`
}

type FeaturesResponse struct {
	Records []model.CourseFeatures `json:"records"`
	Reports []model.InstanceReport `json:"reports"`
	Summary model.Summary          `json:"summary"`
	Cached  bool                   `json:"cached"`
}

// FeatureHandler serves feature extraction over HTTP.
type FeatureHandler struct {
	engine *model.Engine
	cache  cache.FeatureCache
	log    zerolog.Logger
}

func NewFeatureHandler(engine *model.Engine, featureCache cache.FeatureCache, log zerolog.Logger) *FeatureHandler {
	return &FeatureHandler{engine: engine, cache: featureCache, log: log}
}

// Health
// GET /healthz
func (h *FeatureHandler) Health(c *gin.Context) {
	Success(c, http.StatusOK, gin.H{"status": "ok"})
}

// Extract
// POST /api/v1/features
// Extracts the feature table of a single instance.
func (h *FeatureHandler) Extract(c *gin.Context) {
	var req DocumentRequest
	if !Bind(c, &req) {
		return
	}
	h.process(c, []DocumentRequest{req})
}

// ExtractBatch
// POST /api/v1/features/batch
// Extracts one feature table over several instances, in request order.
func (h *FeatureHandler) ExtractBatch(c *gin.Context) {
	var req BatchRequest
	if !Bind(c, &req) {
		return
	}
	h.process(c, req.Documents)
}

func (h *FeatureHandler) process(c *gin.Context, requests []DocumentRequest) {
	ctx := c.Request.Context()
	names := lo.Map(requests, func(req DocumentRequest, _ int) string { return req.Name })
	contents := lo.Map(requests, func(req DocumentRequest, _ int) string { return req.Content })
	key := cache.Key(h.engine.Config(), names, contents)

	result, hit, err := h.cache.Get(ctx, key)
	if err != nil {
		h.log.Warn().Err(err).Msg("Feature cache read failed")
	}

	if !hit {
		documents := lo.Map(requests, func(req DocumentRequest, _ int) model.Document {
			return dataset.FromText(req.Name, req.Content)
		})

		result, err = h.engine.Process(ctx, documents)
		switch {
		case errors.Is(err, model.ErrNoDocuments):
			Fail(c, http.StatusUnprocessableEntity, ErrNoData)
			return
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			Fail(c, http.StatusServiceUnavailable, ErrCancelled)
			return
		case err != nil:
			h.log.Error().Err(err).Msg("Feature extraction failed")
			Fail(c, http.StatusInternalServerError, ErrInternal)
			return
		}

		if err := h.cache.Set(ctx, key, result); err != nil {
			h.log.Warn().Err(err).Msg("Feature cache write failed")
		}
	}

	Success(c, http.StatusOK, FeaturesResponse{
		Records: result.Records,
		Reports: result.Reports,
		Summary: model.Summarize(result.Records),
		Cached:  hit,
	})
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kontim1983-hub/leasing-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RecordsHandler serves the read side of the record set: the full listing
// (cache-aside via redis) and the uploaded source document names.
type RecordsHandler struct {
	svc      service.InventoryService
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewRecordsHandler(svc service.InventoryService, rdb *redis.Client, cacheTTL time.Duration) *RecordsHandler {
	return &RecordsHandler{svc: svc, rdb: rdb, cacheTTL: cacheTTL}
}

// List godoc
// @Summary Current record set of a generation, insertion order
// @Tags records
// @Produce json
// @Param generation path string true "Schema generation (v1|v2|v3)"
// @Success 200 {array} dto.RecordResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/{generation}/records [get]
func (h *RecordsHandler) List(c *gin.Context) {
	generation := c.Param("generation")
	ctx := c.Request.Context()
	cacheKey := service.RecordsCacheKey(generation)

	// 1. Try redis; every mutating operation invalidates this key.
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
	}

	// 2. Cache miss: query the store.
	records, err := h.svc.List(ctx, generation)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	body, err := json.Marshal(records)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// 3. Populate cache, best effort.
	if h.rdb != nil {
		_ = h.rdb.Set(context.Background(), cacheKey, body, h.cacheTTL).Err()
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Files godoc
// @Summary Names of previously uploaded source documents
// @Tags records
// @Produce json
// @Param generation path string true "Schema generation (v1|v2|v3)"
// @Success 200 {array} string
// @Failure 404 {object} apierror.APIError
// @Router /api/{generation}/files [get]
func (h *RecordsHandler) Files(c *gin.Context) {
	names, err := h.svc.Files(c.Param("generation"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

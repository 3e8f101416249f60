package handler

import (
	"net/http"

	"github.com/kontim1983-hub/leasing-app/internal/dto"
	"github.com/kontim1983-hub/leasing-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the administrative mutations: clearing change
// markers and the confirm-gated full wipe.
type AdminHandler struct {
	svc service.InventoryService
}

func NewAdminHandler(svc service.InventoryService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ClearChangedColumns godoc
// @Summary Reset every record's change markers, values untouched
// @Tags admin
// @Produce json
// @Param generation path string true "Schema generation (v1|v2|v3)"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/{generation}/clear-changed-columns [post]
func (h *AdminHandler) ClearChangedColumns(c *gin.Context) {
	affected, err := h.svc.ClearChangeMarkers(c.Request.Context(), c.Param("generation"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{
		Message:      "change markers cleared",
		RowsAffected: affected,
	})
}

// DeleteAllRecords godoc
// @Summary Irreversibly delete every record of a generation
// @Description Requires the exact confirmation phrase {"confirm": "delete"}.
// @Tags admin
// @Accept json
// @Produce json
// @Param generation path string true "Schema generation (v1|v2|v3)"
// @Param body body dto.DeleteAllRequest true "Confirmation"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/{generation}/delete-all-records [post]
func (h *AdminHandler) DeleteAllRecords(c *gin.Context) {
	var req dto.DeleteAllRequest
	if !bindAndValidate(c, &req) {
		return
	}

	deleted, err := h.svc.DeleteAll(c.Request.Context(), c.Param("generation"), req.Confirm)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{
		Message:      "all records deleted",
		RowsAffected: deleted,
	})
}

package handler

import (
	"net/http"

	"github.com/kontim1983-hub/leasing-app/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	svc service.InventoryService
}

func NewExportHandler(svc service.InventoryService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export godoc
// @Summary Download the current record set as an xlsx document
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param generation path string true "Schema generation (v1|v2|v3)"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /api/{generation}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	data, filename, err := h.svc.Export(c.Request.Context(), c.Param("generation"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

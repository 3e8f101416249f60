package handler

import (
	"net/http"

	"github.com/kontim1983-hub/leasing-app/internal/apierror"
	"github.com/kontim1983-hub/leasing-app/internal/service"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	svc         service.UploadService
	maxUploadMB int64
}

func NewUploadHandler(svc service.UploadService, maxUploadMB int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxUploadMB: maxUploadMB}
}

// Upload godoc
// @Summary Upload a spreadsheet export and reconcile it against the store
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param generation path string true "Schema generation (v1|v2|v3)"
// @Param file formData file true "xlsx export"
// @Success 200 {object} dto.UploadSummary
// @Failure 400 {object} apierror.APIError
// @Router /api/{generation}/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUploadMB << 20); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("failed to parse multipart form"))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("missing file field"))
		return
	}
	defer file.Close()

	summary, err := h.svc.ProcessUpload(c.Request.Context(), c.Param("generation"), header.Filename, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

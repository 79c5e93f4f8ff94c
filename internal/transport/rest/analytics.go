package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medbook/internal/domain"
)

// @Summary Booking statistics
// @Tags Analytics
// @Produce json
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date, inclusive (YYYY-MM-DD)"
// @Success 200 {object} successResponseBody{data=domain.DoctorStats}
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/analytics/summary [get]
func (h *Handler) getAnalyticsSummary(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		badRequestResponse(c, "from and to are required")
		return
	}

	stats, err := h.services.Analytics.DoctorStats(c.Request.Context(), getDoctor(c).ID, from, to)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, stats)
}

// @Summary Export bookings as CSV
// @Description Writes the bookings of the range to object storage and returns a presigned download URL
// @Tags Analytics
// @Accept json
// @Produce json
// @Param input body domain.ExportRequestDTO true "Range"
// @Success 201 {object} successResponseBody{data=domain.ExportResult}
// @Failure 400 {object} errorResponseBody
// @Failure 503 {object} errorResponseBody "File storage is not configured"
// @Security ApiKeyAuth
// @Router /api/v1/analytics/export [post]
func (h *Handler) exportBookings(c *gin.Context) {
	var req domain.ExportRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	result, err := h.services.Analytics.ExportBookings(c.Request.Context(), getDoctor(c).ID, req.From, req.To)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, result)
}

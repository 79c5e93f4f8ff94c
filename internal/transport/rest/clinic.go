package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medbook/internal/domain"
)

// @Summary Get clinic
// @Tags Clinics
// @Produce json
// @Param id path int true "Clinic ID"
// @Success 200 {object} successResponseBody{data=domain.Clinic}
// @Failure 404 {object} errorResponseBody
// @Router /api/v1/clinics/{id} [get]
func (h *Handler) getClinicByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	clinic, err := h.services.Clinic.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, clinic)
}

// @Summary List own clinics
// @Tags Clinics
// @Produce json
// @Param include_inactive query bool false "Include inactive clinics"
// @Success 200 {object} successResponseBody{data=[]domain.Clinic}
// @Security ApiKeyAuth
// @Router /api/v1/clinics [get]
func (h *Handler) getMyClinics(c *gin.Context) {
	clinics, err := h.services.Clinic.ListByDoctor(c.Request.Context(), getDoctor(c).ID, c.Query("include_inactive") == "true")
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}
	if clinics == nil {
		clinics = []domain.Clinic{}
	}

	successResponse(c, http.StatusOK, clinics)
}

// @Summary Create clinic
// @Tags Clinics
// @Accept json
// @Produce json
// @Param input body domain.CreateClinicDTO true "Clinic"
// @Success 201 {object} successResponseBody{data=domain.Clinic}
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/clinics [post]
func (h *Handler) createClinic(c *gin.Context) {
	var req domain.CreateClinicDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	clinic, err := h.services.Clinic.Create(c.Request.Context(), getDoctor(c).ID, req)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, clinic)
}

// @Summary Update clinic
// @Description Changing the timezone moves future availability; existing bookings keep their times.
// @Tags Clinics
// @Accept json
// @Produce json
// @Param id path int true "Clinic ID"
// @Param input body domain.UpdateClinicDTO true "Changed fields"
// @Success 200 {object} successResponseBody{data=domain.Clinic}
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/clinics/{id} [put]
func (h *Handler) updateClinic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateClinicDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	clinic, err := h.services.Clinic.Update(c.Request.Context(), getDoctor(c).ID, id, req)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, clinic)
}

// @Summary Activate clinic
// @Tags Clinics
// @Produce json
// @Param id path int true "Clinic ID"
// @Success 200 {object} successResponseBody{data=domain.Clinic}
// @Security ApiKeyAuth
// @Router /api/v1/clinics/{id}/activate [post]
func (h *Handler) activateClinic(c *gin.Context) {
	h.setClinicActive(c, true)
}

// @Summary Deactivate clinic
// @Description An inactive clinic offers no availability and accepts no bookings.
// @Tags Clinics
// @Produce json
// @Param id path int true "Clinic ID"
// @Success 200 {object} successResponseBody{data=domain.Clinic}
// @Security ApiKeyAuth
// @Router /api/v1/clinics/{id}/deactivate [post]
func (h *Handler) deactivateClinic(c *gin.Context) {
	h.setClinicActive(c, false)
}

func (h *Handler) setClinicActive(c *gin.Context, active bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	clinic, err := h.services.Clinic.SetActive(c.Request.Context(), getDoctor(c).ID, id, active)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, clinic)
}

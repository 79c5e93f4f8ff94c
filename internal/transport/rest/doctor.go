package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medbook/internal/domain"
)

const maxPhotoUploadBytes = 5 << 20

// @Summary List doctors
// @Description Returns doctors with active accounts, optionally filtered by specialty
// @Tags Doctors
// @Produce json
// @Param specialty query string false "Specialty"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} paginatedResponse
// @Failure 500 {object} errorResponseBody
// @Router /api/v1/doctors [get]
func (h *Handler) getDoctors(c *gin.Context) {
	limit, offset := parsePagination(c)

	doctors, total, err := h.services.Doctor.List(c.Request.Context(), domain.DoctorFilter{
		Specialty: c.Query("specialty"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, doctors, total, offset/limit+1, limit)
}

// @Summary Get doctor
// @Tags Doctors
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {object} successResponseBody{data=domain.Doctor}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Router /api/v1/doctors/{id} [get]
func (h *Handler) getDoctorByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doctor, err := h.services.Doctor.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Get own doctor profile
// @Tags Doctors
// @Produce json
// @Success 200 {object} successResponseBody{data=domain.Doctor}
// @Failure 401 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/doctors/me [get]
func (h *Handler) getMyDoctorProfile(c *gin.Context) {
	doctor, err := h.services.Doctor.GetByID(c.Request.Context(), getDoctor(c).ID)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Upload profile photo
// @Description Replaces the doctor's profile photo. Accepts JPEG, PNG, GIF or WebP up to 5 MB.
// @Tags Doctors
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Photo"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 503 {object} errorResponseBody "File storage is not configured"
// @Security ApiKeyAuth
// @Router /api/v1/doctors/me/photo [post]
func (h *Handler) uploadMyPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "photo file is required")
		return
	}
	if file.Size > maxPhotoUploadBytes {
		badRequestResponse(c, "photo must not exceed 5 MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded photo", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxPhotoUploadBytes+1))
	if err != nil {
		h.logger.Error("failed to read uploaded photo", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	url, err := h.services.Doctor.UploadPhoto(c.Request.Context(), getDoctor(c).ID, data, file.Filename)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"photo_url": url})
}

// @Summary Delete profile photo
// @Tags Doctors
// @Success 204
// @Failure 503 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/doctors/me/photo [delete]
func (h *Handler) deleteMyPhoto(c *gin.Context) {
	if err := h.services.Doctor.DeletePhoto(c.Request.Context(), getDoctor(c).ID); err != nil {
		h.serviceErrorResponse(c, err)
		return
	}
	noContentResponse(c)
}

// @Summary Free slots for a day
// @Description Returns the doctor's free slots at a clinic on one calendar day in the clinic's timezone, ordered by start time
// @Tags Availability
// @Produce json
// @Param id path int true "Doctor ID"
// @Param clinic_id query int true "Clinic ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} successResponseBody{data=domain.DaySlots}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Router /api/v1/doctors/{id}/availability [get]
func (h *Handler) getAvailability(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	clinicID, ok := parseInt64Query(c, "clinic_id", true)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		badRequestResponse(c, "date is required")
		return
	}

	slots, err := h.services.Availability.GetAvailability(c.Request.Context(), doctorID, clinicID, date)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	if slots == nil {
		slots = []domain.TimeSlot{}
	}
	successResponse(c, http.StatusOK, domain.DaySlots{Date: date, Slots: slots})
}

// @Summary Days with free slots
// @Tags Availability
// @Produce json
// @Param id path int true "Doctor ID"
// @Param clinic_id query int true "Clinic ID"
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param days query int false "Number of days" default(14)
// @Success 200 {object} successResponseBody{data=[]domain.AvailableDay}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Router /api/v1/doctors/{id}/available-days [get]
func (h *Handler) getAvailableDays(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	clinicID, ok := parseInt64Query(c, "clinic_id", true)
	if !ok {
		return
	}
	from := c.Query("from")
	if from == "" {
		badRequestResponse(c, "from is required")
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequestResponse(c, "invalid days")
			return
		}
		days = n
	}

	result, err := h.services.Availability.GetAvailableDays(c.Request.Context(), doctorID, clinicID, from, days)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	if result == nil {
		result = []domain.AvailableDay{}
	}
	successResponse(c, http.StatusOK, result)
}

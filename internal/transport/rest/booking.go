package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medbook/internal/domain"
)

// @Summary Book a slot
// @Description Books a free slot for the authenticated patient. Rejections carry an error_code: SLOT_ALREADY_BOOKED, SLOT_BLOCKED, SLOT_EXPIRED, SLOT_NOT_FOUND, INVALID_PATIENT or TRANSIENT_CONFLICT.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param input body domain.CreateBookingDTO true "Booking request"
// @Success 201 {object} successResponseBody{data=domain.Booking}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody "SLOT_NOT_FOUND"
// @Failure 409 {object} errorResponseBody "SLOT_ALREADY_BOOKED or SLOT_BLOCKED"
// @Failure 410 {object} errorResponseBody "SLOT_EXPIRED"
// @Failure 422 {object} errorResponseBody "INVALID_PATIENT"
// @Failure 503 {object} errorResponseBody "TRANSIENT_CONFLICT, retry after the Retry-After header"
// @Security ApiKeyAuth
// @Router /api/v1/bookings [post]
func (h *Handler) createBooking(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var req domain.CreateBookingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	booking, err := h.services.Booking.BookSlot(c.Request.Context(), req.SlotID, userID, domain.BookingDetails{
		Type:  req.Type,
		Notes: req.Notes,
	})
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, booking)
}

// @Summary Get booking
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} successResponseBody{data=domain.Booking}
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/bookings/{id} [get]
func (h *Handler) getBookingByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.services.Booking.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}
	if !h.canAccessBooking(c, booking) {
		return
	}

	successResponse(c, http.StatusOK, booking)
}

// @Summary List own bookings
// @Description Patients see their bookings, doctors see bookings made with them, admins see all
// @Tags Bookings
// @Produce json
// @Param status query string false "PENDING, CONFIRMED, COMPLETED or CANCELED"
// @Param clinic_id query int false "Clinic ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date, inclusive (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} paginatedResponse
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/bookings [get]
func (h *Handler) getBookings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}
	role, _ := getUserRole(c)

	limit, offset := parsePagination(c)
	filter := domain.BookingFilter{Limit: limit, Offset: offset}

	switch role {
	case domain.UserRolePatient:
		filter.PatientID = &userID
	case domain.UserRoleDoctor:
		doctor, err := h.services.Doctor.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrDoctorNotFound) {
				forbiddenResponse(c, "doctor profile not found")
				return
			}
			h.serviceErrorResponse(c, err)
			return
		}
		filter.DoctorID = &doctor.ID
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.BookingStatus(raw)
		filter.Status = &status
	}
	clinicID, ok := parseInt64Query(c, "clinic_id", false)
	if !ok {
		return
	}
	if clinicID > 0 {
		filter.ClinicID = &clinicID
	}
	if filter.From, filter.To, ok = parseDateRangeQuery(c); !ok {
		return
	}

	bookings, total, err := h.services.Booking.ListBookings(c.Request.Context(), filter)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, bookings, total, offset/limit+1, limit)
}

// @Summary Cancel booking
// @Description Cancels a pending or confirmed booking and frees its slot if it is still upcoming. Canceling twice reports ALREADY_CANCELED.
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} successResponseBody{data=cancelResponse}
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "INVALID_STATE_TRANSITION"
// @Security ApiKeyAuth
// @Router /api/v1/bookings/{id} [delete]
func (h *Handler) cancelBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.services.Booking.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}
	if !h.canAccessBooking(c, booking) {
		return
	}

	booking, result, err := h.services.Booking.CancelBooking(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, cancelResponse{Result: result, Booking: booking})
}

// @Summary Confirm booking
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} successResponseBody{data=domain.Booking}
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "INVALID_STATE_TRANSITION"
// @Security ApiKeyAuth
// @Router /api/v1/bookings/{id}/confirm [post]
func (h *Handler) confirmBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.services.Booking.ConfirmBooking(c.Request.Context(), getDoctor(c).ID, id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, booking)
}

// @Summary Complete booking
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} successResponseBody{data=domain.Booking}
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "INVALID_STATE_TRANSITION"
// @Security ApiKeyAuth
// @Router /api/v1/bookings/{id}/complete [post]
func (h *Handler) completeBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.services.Booking.CompleteBooking(c.Request.Context(), getDoctor(c).ID, id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, booking)
}

// canAccessBooking lets the booking's patient, its doctor and admins through.
// It writes the error response itself.
func (h *Handler) canAccessBooking(c *gin.Context, booking *domain.Booking) bool {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}
	role, _ := getUserRole(c)

	switch role {
	case domain.UserRoleAdmin:
		return true
	case domain.UserRolePatient:
		if booking.PatientID == userID {
			return true
		}
	case domain.UserRoleDoctor:
		doctor, err := h.services.Doctor.GetByUserID(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, domain.ErrDoctorNotFound) {
			h.serviceErrorResponse(c, err)
			return false
		}
		if doctor != nil && doctor.ID == booking.DoctorID {
			return true
		}
	}

	forbiddenResponse(c)
	return false
}

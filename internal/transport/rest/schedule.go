package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medbook/internal/domain"
)

// @Summary List schedule rules
// @Tags Schedule
// @Produce json
// @Param clinic_id query int false "Clinic ID"
// @Param include_inactive query bool false "Include inactive rules"
// @Success 200 {object} successResponseBody{data=[]domain.WeeklyScheduleRule}
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/schedule/rules [get]
func (h *Handler) getRules(c *gin.Context) {
	filter := domain.RuleFilter{
		DoctorID:        getDoctor(c).ID,
		IncludeInactive: c.Query("include_inactive") == "true",
	}
	clinicID, ok := parseInt64Query(c, "clinic_id", false)
	if !ok {
		return
	}
	if clinicID > 0 {
		filter.ClinicID = &clinicID
	}

	rules, err := h.services.Schedule.ListRules(c.Request.Context(), filter)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}
	if rules == nil {
		rules = []domain.WeeklyScheduleRule{}
	}

	successResponse(c, http.StatusOK, rules)
}

// @Summary Create schedule rule
// @Description Adds a weekly rule. Existing bookings are never affected by rule changes.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param input body domain.CreateRuleDTO true "Rule"
// @Success 201 {object} successResponseBody{data=domain.WeeklyScheduleRule}
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/schedule/rules [post]
func (h *Handler) createRule(c *gin.Context) {
	var req domain.CreateRuleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	rule, err := h.services.Schedule.CreateRule(c.Request.Context(), getDoctor(c).ID, req)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, rule)
}

// @Summary Get schedule rule
// @Tags Schedule
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} successResponseBody{data=domain.WeeklyScheduleRule}
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/schedule/rules/{id} [get]
func (h *Handler) getRuleByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rule, err := h.services.Schedule.GetRule(c.Request.Context(), getDoctor(c).ID, id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, rule)
}

// @Summary Update schedule rule
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path int true "Rule ID"
// @Param input body domain.UpdateRuleDTO true "Changed fields"
// @Success 200 {object} successResponseBody{data=domain.WeeklyScheduleRule}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/schedule/rules/{id} [put]
func (h *Handler) updateRule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateRuleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	rule, err := h.services.Schedule.UpdateRule(c.Request.Context(), getDoctor(c).ID, id, req)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, rule)
}

// @Summary Activate schedule rule
// @Tags Schedule
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} successResponseBody{data=domain.WeeklyScheduleRule}
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/schedule/rules/{id}/activate [post]
func (h *Handler) activateRule(c *gin.Context) {
	h.setRuleStatus(c, domain.RuleStatusActive)
}

// @Summary Deactivate schedule rule
// @Tags Schedule
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} successResponseBody{data=domain.WeeklyScheduleRule}
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/schedule/rules/{id}/deactivate [post]
func (h *Handler) deactivateRule(c *gin.Context) {
	h.setRuleStatus(c, domain.RuleStatusInactive)
}

func (h *Handler) setRuleStatus(c *gin.Context, status domain.RuleStatus) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rule, err := h.services.Schedule.SetRuleStatus(c.Request.Context(), getDoctor(c).ID, id, status)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, rule)
}

// @Summary Day calendar
// @Description Every slot the doctor's rules produce for the day, each with its state: free, booked, blocked or past
// @Tags Schedule
// @Produce json
// @Param clinic_id query int true "Clinic ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} successResponseBody{data=[]domain.SlotView}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /api/v1/schedule/slots [get]
func (h *Handler) getDaySlots(c *gin.Context) {
	clinicID, ok := parseInt64Query(c, "clinic_id", true)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		badRequestResponse(c, "date is required")
		return
	}

	slots, err := h.services.Availability.ListDaySlots(c.Request.Context(), getDoctor(c).ID, clinicID, date)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}
	if slots == nil {
		slots = []domain.SlotView{}
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Block slot
// @Description Withdraws an upcoming slot from availability. Existing bookings are kept.
// @Tags Schedule
// @Produce json
// @Param id path int true "Slot ID"
// @Success 200 {object} successResponseBody{data=domain.TimeSlot}
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 410 {object} errorResponseBody "SLOT_EXPIRED"
// @Security ApiKeyAuth
// @Router /api/v1/schedule/slots/{id}/block [post]
func (h *Handler) blockSlot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.services.Availability.BlockSlot(c.Request.Context(), getDoctor(c).ID, id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slot)
}

// @Summary Unblock slot
// @Tags Schedule
// @Produce json
// @Param id path int true "Slot ID"
// @Success 200 {object} successResponseBody{data=domain.TimeSlot}
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 410 {object} errorResponseBody "SLOT_EXPIRED"
// @Security ApiKeyAuth
// @Router /api/v1/schedule/slots/{id}/unblock [post]
func (h *Handler) unblockSlot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.services.Availability.UnblockSlot(c.Request.Context(), getDoctor(c).ID, id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slot)
}

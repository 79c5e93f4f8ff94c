package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medbook/internal/domain"
)

type errorResponseBody struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Code      int    `json:"code,omitempty"`
	ErrorCode string `json:"error_code,omitempty" example:"SLOT_ALREADY_BOOKED"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type paginatedResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

type cancelResponse struct {
	Result  domain.CancelResult `json:"result" example:"CANCELED"`
	Booking *domain.Booking     `json:"booking"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	successResponse(c, http.StatusCreated, data)
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func paginatedSuccessResponse(c *gin.Context, data interface{}, totalCount, page, pageSize int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = totalCount / pageSize
		if totalCount%pageSize > 0 {
			totalPages++
		}
	}

	c.JSON(http.StatusOK, paginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	codedErrorResponse(c, statusCode, "", message)
}

func codedErrorResponse(c *gin.Context, statusCode int, errorCode, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:    "error",
		Message:   message,
		Code:      statusCode,
		ErrorCode: errorCode,
	})
}

func badRequestResponse(c *gin.Context, message string) {
	codedErrorResponse(c, http.StatusBadRequest, errorCodeValidation, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "authorization required")
}

func forbiddenResponse(c *gin.Context, message ...string) {
	msg := "access denied"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	codedErrorResponse(c, http.StatusForbidden, errorCodeForbidden, msg)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "internal server error")
}

const (
	errorCodeValidation    = "VALIDATION_FAILED"
	errorCodeForbidden     = "FORBIDDEN"
	errorCodeNotFound      = "NOT_FOUND"
	errorCodeInvalidState  = "INVALID_STATE_TRANSITION"
	errorCodeRangeTooLarge = "RANGE_TOO_LARGE"
	errorCodeUnavailable   = "UNAVAILABLE"

	retryAfterSeconds = "1"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{domain.ErrSlotAlreadyBooked, http.StatusConflict, string(domain.OutcomeSlotAlreadyBooked)},
	{domain.ErrSlotBlocked, http.StatusConflict, string(domain.OutcomeSlotBlocked)},
	{domain.ErrSlotExpired, http.StatusGone, string(domain.OutcomeSlotExpired)},
	{domain.ErrInvalidPatient, http.StatusUnprocessableEntity, string(domain.OutcomeInvalidPatient)},
	{domain.ErrTransientConflict, http.StatusServiceUnavailable, string(domain.OutcomeTransientConflict)},
	{domain.ErrSlotNotFound, http.StatusNotFound, string(domain.OutcomeSlotNotFound)},
	{domain.ErrBookingNotFound, http.StatusNotFound, errorCodeNotFound},
	{domain.ErrRuleNotFound, http.StatusNotFound, errorCodeNotFound},
	{domain.ErrClinicNotFound, http.StatusNotFound, errorCodeNotFound},
	{domain.ErrDoctorNotFound, http.StatusNotFound, errorCodeNotFound},
	{domain.ErrInvalidStateTransition, http.StatusConflict, errorCodeInvalidState},
	{domain.ErrForbidden, http.StatusForbidden, errorCodeForbidden},
	{domain.ErrRangeTooLarge, http.StatusBadRequest, errorCodeRangeTooLarge},
	{domain.ErrValidation, http.StatusBadRequest, errorCodeValidation},
	{domain.ErrFileStorageUnavailable, http.StatusServiceUnavailable, errorCodeUnavailable},
}

// serviceErrorResponse writes the response for an error returned by a
// service. Unknown errors become a 500 without leaking details.
func (h *Handler) serviceErrorResponse(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			if m.status == http.StatusServiceUnavailable {
				c.Header("Retry-After", retryAfterSeconds)
			}
			codedErrorResponse(c, m.status, m.code, err.Error())
			return
		}
	}

	_ = c.Error(err)
	internalServerErrorResponse(c)
}

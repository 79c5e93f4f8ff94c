package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"medbook/config"
	"medbook/internal/domain"
	"medbook/internal/service"
	"medbook/internal/transport/websocket"
	"medbook/pkg/auth"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
	tokens   *auth.TokenManager
	slotHub  *websocket.SlotHub
}

func NewHandler(services *service.Services, logger *zap.Logger, cfg *config.Config, slotHub *websocket.SlotHub) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   cfg,
		tokens:   auth.NewTokenManager(cfg.JWT.SigningKey),
		slotHub:  slotHub,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.requestIDMiddleware())
	router.Use(h.loggerMiddleware())
	router.Use(h.errorMiddleware())
	router.Use(h.corsMiddleware())

	router.GET("/health", h.health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ws/slots", h.slotHub.HandleWebSocket)

	api := router.Group("/api/v1")
	{
		doctors := api.Group("/doctors")
		{
			doctors.GET("", h.getDoctors)
			doctors.GET("/:id", h.getDoctorByID)
			doctors.GET("/:id/availability", h.getAvailability)
			doctors.GET("/:id/available-days", h.getAvailableDays)

			me := doctors.Group("/me", h.authMiddleware(), h.doctorMiddleware())
			{
				me.GET("", h.getMyDoctorProfile)
				me.POST("/photo", h.uploadMyPhoto)
				me.DELETE("/photo", h.deleteMyPhoto)
			}
		}

		bookings := api.Group("/bookings", h.authMiddleware())
		{
			bookings.POST("", h.roleMiddleware(domain.UserRolePatient), h.createBooking)
			bookings.GET("", h.getBookings)
			bookings.GET("/:id", h.getBookingByID)
			bookings.DELETE("/:id", h.cancelBooking)
			bookings.POST("/:id/confirm", h.doctorMiddleware(), h.confirmBooking)
			bookings.POST("/:id/complete", h.doctorMiddleware(), h.completeBooking)
		}

		h.initScheduleRoutes(api)

		clinics := api.Group("/clinics")
		{
			clinics.GET("/:id", h.getClinicByID)

			own := clinics.Group("", h.authMiddleware(), h.doctorMiddleware())
			{
				own.GET("", h.getMyClinics)
				own.POST("", h.createClinic)
				own.PUT("/:id", h.updateClinic)
				own.POST("/:id/activate", h.activateClinic)
				own.POST("/:id/deactivate", h.deactivateClinic)
			}
		}

		analytics := api.Group("/analytics", h.authMiddleware(), h.doctorMiddleware())
		{
			analytics.GET("/summary", h.getAnalyticsSummary)
			analytics.POST("/export", h.exportBookings)
		}
	}
}

func (h *Handler) initScheduleRoutes(api *gin.RouterGroup) {
	schedule := api.Group("/schedule", h.authMiddleware(), h.doctorMiddleware())
	{
		schedule.GET("/rules", h.getRules)
		schedule.POST("/rules", h.createRule)
		schedule.GET("/rules/:id", h.getRuleByID)
		schedule.PUT("/rules/:id", h.updateRule)
		schedule.POST("/rules/:id/activate", h.activateRule)
		schedule.POST("/rules/:id/deactivate", h.deactivateRule)

		schedule.GET("/slots", h.getDaySlots)
		schedule.POST("/slots/:id/block", h.blockSlot)
		schedule.POST("/slots/:id/unblock", h.unblockSlot)
	}
}

// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    h.config.Name,
		"version": h.config.Version,
	})
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequestResponse(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// parseInt64Query returns 0 when the parameter is absent.
func parseInt64Query(c *gin.Context, name string, required bool) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			badRequestResponse(c, name+" is required")
			return 0, false
		}
		return 0, true
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		badRequestResponse(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parsePagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseDateRangeQuery reads optional from/to dates as a half-open UTC
// range [from, to+1day).
func parseDateRangeQuery(c *gin.Context) (from, to *time.Time, ok bool) {
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			badRequestResponse(c, "invalid from date, expected YYYY-MM-DD")
			return nil, nil, false
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			badRequestResponse(c, "invalid to date, expected YYYY-MM-DD")
			return nil, nil, false
		}
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	return from, to, true
}

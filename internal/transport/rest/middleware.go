package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"medbook/internal/domain"
)

const (
	authorizationHeader = "Authorization"
	requestIDHeader     = "X-Request-ID"
	requestIDCtx        = "request_id"
	userIDCtx           = "user_id"
	userRoleCtx         = "user_role"
	doctorCtx           = "doctor"
)

func (h *Handler) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDCtx, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		logger := h.logger.With(
			zap.String("request_id", c.GetString(requestIDCtx)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		)

		switch {
		case status >= 500:
			logger.Error("server error")
		case status >= 400:
			logger.Warn("client error")
		default:
			logger.Info("request processed")
		}
	}
}

func (h *Handler) errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			h.logger.Error("request error",
				zap.String("request_id", c.GetString(requestIDCtx)),
				zap.Error(err.Err),
			)
		}
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Content-Length, Accept-Encoding, Origin, Accept, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Type, Retry-After, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		origin := c.Request.Header.Get("Origin")
		if origin != "" && c.Request.Header.Get(authorizationHeader) != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeader)
		if header == "" {
			errorResponse(c, http.StatusUnauthorized, "empty authorization header")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || token == "" {
			errorResponse(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := h.tokens.Parse(token)
		if err != nil {
			errorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		role := domain.UserRole(claims.Role)
		if !role.IsValid() {
			errorResponse(c, http.StatusUnauthorized, "unknown role in token")
			return
		}

		c.Set(userIDCtx, claims.UserID)
		c.Set(userRoleCtx, role)

		c.Next()
	}
}

func (h *Handler) roleMiddleware(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := getUserRole(c)
		if err != nil {
			unauthorizedResponse(c)
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		forbiddenResponse(c)
	}
}

// doctorMiddleware resolves the caller's doctor profile and stores it in
// the context. Must run after authMiddleware.
func (h *Handler) doctorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := getUserRole(c)
		if err != nil {
			unauthorizedResponse(c)
			return
		}
		if role != domain.UserRoleDoctor {
			forbiddenResponse(c, "doctor role required")
			return
		}

		userID, _ := getUserID(c)
		doctor, err := h.services.Doctor.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrDoctorNotFound) {
				forbiddenResponse(c, "doctor profile not found")
				return
			}
			h.serviceErrorResponse(c, err)
			return
		}

		c.Set(doctorCtx, doctor)
		c.Next()
	}
}

func getUserID(c *gin.Context) (int64, error) {
	userID, exists := c.Get(userIDCtx)
	if !exists {
		return 0, errors.New("user is not authenticated")
	}

	id, ok := userID.(int64)
	if !ok {
		return 0, errors.New("malformed user id")
	}

	return id, nil
}

func getUserRole(c *gin.Context) (domain.UserRole, error) {
	userRole, exists := c.Get(userRoleCtx)
	if !exists {
		return "", errors.New("user is not authenticated")
	}

	role, ok := userRole.(domain.UserRole)
	if !ok {
		return "", errors.New("malformed user role")
	}

	return role, nil
}

func getDoctor(c *gin.Context) *domain.Doctor {
	v, _ := c.Get(doctorCtx)
	doctor, _ := v.(*domain.Doctor)
	return doctor
}

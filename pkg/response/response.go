package response

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"anoa.com/socialplatform/pkg/apperror"
	"anoa.com/socialplatform/pkg/dto"
	"anoa.com/socialplatform/pkg/logging"
	"anoa.com/socialplatform/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	UserIDKey    = "user_id"
	RequestIDKey = "request_id"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uint, error) {
	raw, exists := c.Get(UserIDKey)
	if !exists {
		return 0, apperror.ErrUnauthorized
	}

	s, ok := raw.(string)
	if !ok {
		return 0, apperror.ErrUnauthorized
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.ErrUnauthorized
	}

	return uint(id), nil
}

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Invalid(fmt.Sprintf("invalid %s", name))
	}
	return uint(id), nil
}

// Message writes the {"message": ...} envelope.
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, dto.MessageResponse{Message: message})
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error, fields ...zap.Field) {
	code := apperror.MapErrorToStatus(err)

	fields = append(fields,
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String(RequestIDKey, c.GetString(RequestIDKey)),
		zap.Int("status", code),
		zap.Error(err),
	)
	if userID, exists := c.Get(UserIDKey); exists {
		fields = append(fields, zap.Any(UserIDKey, userID))
	}

	if code >= http.StatusInternalServerError {
		logging.L().Error("request failed", fields...)
	} else {
		logging.L().Warn("request rejected", fields...)
	}

	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
	}

	c.AbortWithStatusJSON(code, dto.MessageResponse{Message: apperror.PublicMessage(err)})
}

// Abort writes the message envelope and stops the handler chain.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, dto.MessageResponse{Message: message})
}

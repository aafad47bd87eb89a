package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

// ErrorHandler turns the last error a handler pushed with c.Error into a
// JSON response. Responses already written are left alone.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		status, body := errorResponse(last)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(last.Err),
			)
		}
		c.JSON(status, body)
	}
}

func errorResponse(e *gin.Error) (int, types.ErrorResponse) {
	err := e.Err
	msg, _ := e.Meta.(string)
	if msg == "" {
		msg = err.Error()
	}

	if verr, ok := recipe.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity, types.ErrorResponse{Error: verr.Message, Details: verr.Object}
	}

	switch {
	case e.IsType(gin.ErrorTypeBind), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, types.ErrorResponse{Error: msg}
	case errors.Is(err, ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, types.ErrorResponse{Error: msg}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, types.ErrorResponse{Error: msg}
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrFridgeItemNotFound),
		errors.Is(err, service.ErrDraftNotFound):
		return http.StatusNotFound, types.ErrorResponse{Error: msg}
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, types.ErrorResponse{Error: msg}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, types.ErrorResponse{Error: msg}
	}
	return http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"}
}

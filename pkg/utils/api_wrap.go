package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps the error taxonomy onto HTTP responses.
func HandleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var txErr *TransactionError

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrTripNotFound):
		RespondError(c, http.StatusNotFound, "Trip not found")
	case errors.Is(err, ErrResourceNotFound):
		RespondError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, ErrRequestShape):
		RespondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrMissingCredential):
		RespondError(c, http.StatusUnauthorized, "Credential is required")
	case errors.Is(err, ErrProviderUnavailable):
		RespondError(c, http.StatusBadGateway, "Upstream provider unavailable")
	case errors.As(err, &txErr):
		logger.Error("transaction failed",
			zap.String("trace_id", traceID(c)),
			zap.String("op", txErr.Op),
			zap.Bool("schema_mismatch", txErr.SchemaMismatch),
			zap.Error(txErr.Cause))
		if txErr.SchemaMismatch {
			RespondError(c, http.StatusInternalServerError, "Schema mismatch: "+txErr.Cause.Error())
			return
		}
		RespondError(c, http.StatusInternalServerError, "Transaction failed: "+txErr.Cause.Error())
	case errors.Is(err, ErrDatabaseError):
		logger.Error("database error", zap.String("trace_id", traceID(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error("unknown error", zap.String("trace_id", traceID(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

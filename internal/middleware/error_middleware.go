package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/dberrors"
	"github.com/yigit/bluecollar/internal/pkg/logger"
	"github.com/yigit/bluecollar/internal/pkg/pagination"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	var ce *apperrors.CustomError
	withDetails := func(d *dto.ErrorDetail) *dto.ErrorDetail {
		if errors.As(err, &ce) && ce.Details != nil {
			d.WithDetails(ce.Details)
		}
		return d
	}

	switch {
	case errors.Is(err, pagination.ErrInvalidCursor):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidCursor, "Invalid cursor provided").WithField("cursor")
	case errors.Is(err, apperrors.ErrUnsupportedFileType):
		return http.StatusBadRequest, withDetails(dto.NewErrorDetail(dto.ErrorCodeUnsupportedFile,
			apperrors.Message(err, "Unsupported file type")))
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, withDetails(dto.NewErrorDetail(dto.ErrorCodeValidationFailed,
			apperrors.Message(err, "Validation failed")))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound,
			apperrors.Message(err, "Resource not found"))
	case apperrors.Is(err, apperrors.ErrAlreadyMember, apperrors.ErrDuplicateApplication, apperrors.ErrNameTaken):
		// these conflicts keep the 400 the public API has always returned
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeConflict, apperrors.Message(err, "Conflict"))
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, apperrors.Message(err, "Conflict"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, apperrors.Message(err, "Permission denied"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case dberrors.IsStoreError(err):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "A database error occurred").
			WithSeverity(dto.ErrorSeverityCritical)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/service"
)

type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// ResolveEndpoint adapts a HandlerFunc to gin: errors become their JSON body
// and status, results are written as 200 unless the handler already wrote a
// response itself.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			_ = ctx.Error(apiErr)
			ctx.AbortWithStatusJSON(apiErr.Code, apiErr.Body())
			return
		}
		if ctx.Writer.Written() {
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}

// FromError maps store and service errors onto API errors. Unexpected
// errors are logged with their stack and hidden behind INTERNAL_ERROR.
func FromError(ctx *gin.Context, err error, what string) *APIError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNotFound):
		return ErrNotFound.Msg("%s not found", what)
	case errors.Is(err, db.ErrInUse):
		return ErrConflict.Msg("%s is still in use: %s", what, err.Error())
	case errors.Is(err, db.ErrConflict):
		return ErrConflict.Msg("%s conflicts with an existing record", what)
	case service.IsValidation(err):
		return ErrInvalidReq.Msg("invalid %s: %s", what, err.Error())
	}

	log.Error().Stack().Err(err).
		Str("method", ctx.Request.Method).
		Str("path", ctx.FullPath()).
		Msgf("%s request failed", what)
	return ErrInternalError
}

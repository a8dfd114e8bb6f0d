package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api"
)

func paramID(ctx *gin.Context, name string) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, api.ErrInvalidReq.Msg("invalid %s: must be a positive integer", name)
	}
	return id, nil
}

// created writes v with 201; ResolveEndpoint leaves written responses alone.
func created(ctx *gin.Context, v any) (any, *api.APIError) {
	ctx.JSON(http.StatusCreated, v)
	return nil, nil
}

func noContent(ctx *gin.Context) (any, *api.APIError) {
	ctx.Status(http.StatusNoContent)
	ctx.Writer.WriteHeaderNow()
	return nil, nil
}

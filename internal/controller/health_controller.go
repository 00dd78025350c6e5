package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logviewer-backend/internal/dto"
	"logviewer-backend/internal/model"
	"logviewer-backend/internal/util"
)

func RegisterHealthRoutes(router *gin.Engine) {
	router.GET("/health", Health)
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: util.FormatISO(time.Now()),
	})
}

func NotFound(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, model.Response{Error: "Not Found"})
}

// Recovery turns panics into a 500. The panic value is only echoed back in development.
func Recovery(development bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", ctx.Request.URL.Path).Msg("Recovered from panic")
		resp := model.Response{Error: "Something went wrong!"}
		if development {
			resp.Message = fmt.Sprint(recovered)
		}
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	})
}

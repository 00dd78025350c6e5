package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logviewer-backend/internal/apperror"
	"logviewer-backend/internal/dto"
	"logviewer-backend/internal/middleware"
	"logviewer-backend/internal/model"
	"logviewer-backend/internal/service"
)

type LogController struct {
	logQueryService  service.LogQueryService
	logIngestService service.LogIngestService
}

func NewLogController(logQueryService service.LogQueryService, logIngestService service.LogIngestService) *LogController {
	return &LogController{
		logQueryService:  logQueryService,
		logIngestService: logIngestService,
	}
}

func RegisterLogRoutes(router *gin.Engine, controller *LogController) {
	logs := router.Group("/api/logs")
	{
		logs.GET("", controller.GetLogs)
		logs.POST("", controller.CreateLog)
	}
}

// GetLogs godoc
// @Summary      Search and filter logs
// @Description  Returns stored log entries matching every given filter, newest first. Text filters are case-insensitive substring matches; level is a case-insensitive exact match.
// @Tags         logs
// @Produce      json
// @Param        level            query     string  false  "Log level" Enums(error, warn, info, debug)
// @Param        message          query     string  false  "Substring of the message"
// @Param        resourceId       query     string  false  "Substring of the resource id"
// @Param        timestamp_start  query     string  false  "Inclusive lower bound, ISO 8601 or epoch milliseconds"
// @Param        timestamp_end    query     string  false  "Inclusive upper bound, ISO 8601 or epoch milliseconds"
// @Param        traceId          query     string  false  "Substring of the trace id"
// @Param        spanId           query     string  false  "Substring of the span id"
// @Param        commit           query     string  false  "Substring of the commit hash"
// @Success      200  {array}   model.LogEntry
// @Failure      400  {object}  model.Response "Invalid filter value"
// @Failure      500  {object}  model.Response "Log store unavailable"
// @Router       /api/logs [get]
func (c *LogController) GetLogs(ctx *gin.Context) {
	var req dto.LogSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondError(ctx, apperror.Wrap(apperror.InvalidFilterValue, "invalid query parameters", err))
		return
	}

	result, err := c.logQueryService.SearchLogs(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// CreateLog godoc
// @Summary      Add a log entry
// @Description  Validates and appends one log entry. A missing timestamp defaults to the current time and non-object metadata is stored as {}.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        entry  body      model.LogEntry  true  "Log entry"
// @Success      201    {object}  model.LogEntry
// @Failure      400    {object}  model.Response "Validation failed"
// @Failure      500    {object}  model.Response "Failed to add log"
// @Router       /api/logs [post]
func (c *LogController) CreateLog(ctx *gin.Context) {
	var entry model.LogEntry
	if err := ctx.ShouldBindJSON(&entry); err != nil {
		respondError(ctx, apperror.Wrap(apperror.ValidationFailed, "request body must be a JSON log entry", err))
		return
	}

	stored, err := c.logIngestService.CreateLog(ctx.Request.Context(), entry)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, stored)
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.ValidationFailed, apperror.InvalidFilterValue:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(ctx)).Msg("Unhandled error")
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, model.NewErrorResponse("InternalError", "Something went wrong!", nil))
		return
	}
	status := statusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		_ = ctx.Error(err)
	}
	ctx.JSON(status, model.NewErrorResponse(string(appErr.Kind), appErr.Message, appErr.Details))
}

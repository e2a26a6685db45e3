package controller

import (
	"errors"
	"net/http"
	"strings"

	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// statusOf 错误到 HTTP 状态码的统一映射
func statusOf(err error) int {
	switch {
	case errors.Is(err, util.ErrInvalidInput),
		errors.Is(err, util.ErrUnsupportedLanguage),
		errors.Is(err, util.ErrFileTooLarge),
		errors.Is(err, util.ErrFileType):
		return http.StatusBadRequest
	case errors.Is(err, util.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, util.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, util.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// generationFailure 生成类接口的 {error, details} 错误响应，action 如 "Failed to generate feedback"
func generationFailure(ctx *gin.Context, action string, err error) {
	status := statusOf(err)
	switch {
	case status == http.StatusBadRequest:
		util.AbortGeneration(ctx, status, clientMessage(err), "")
	case status == http.StatusGatewayTimeout:
		util.AbortGeneration(ctx, status, "Request timed out", "")
	case errors.Is(err, util.ErrEmptyResponse):
		util.AbortGeneration(ctx, status, action+": Empty response", "")
	default:
		logger.Log.Error(action, zap.String("path", ctx.FullPath()), zap.Error(err))
		util.AbortGeneration(ctx, status, action, err.Error())
	}
}

// sessionFailure 会话类接口沿用 {code,message,data} 响应
func sessionFailure(ctx *gin.Context, err error) {
	status := statusOf(err)
	switch status {
	case http.StatusBadRequest:
		util.BadRequest(ctx, clientMessage(err))
	case http.StatusForbidden:
		util.Forbidden(ctx)
	case http.StatusNotFound:
		util.NotFound(ctx)
	case http.StatusGatewayTimeout:
		util.Error(ctx, status, "Request timed out")
	case http.StatusInternalServerError:
		util.LogInternalError(ctx, err)
	default:
		util.Error(ctx, status, clientMessage(err))
	}
}

// clientMessage 去掉哨兵前缀，只保留具体原因
func clientMessage(err error) string {
	if errors.Is(err, util.ErrUnsupportedLanguage) {
		return "Unsupported language"
	}
	return strings.TrimPrefix(err.Error(), util.ErrInvalidInput.Error()+": ")
}

package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"TapTrack/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
// 扫卡终端只依赖顶层 error 字段，细节放在 code/details 中
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case errors.TagNotFound.Code:
		return http.StatusNotFound // 404
	case errors.TagRequired.Code:
		return http.StatusBadRequest // 400
	case errors.ScanCooldownActive.Code, errors.ScanRateLimited.Code:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = "Internal server error"
	}

	c.JSON(statusCode, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = "Internal server error"
	}

	c.JSON(statusCode, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// Success 返回成功响应；扫卡响应保持扁平结构，直接序列化 data
func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: err.Error(),
		Code:  "INVALID_REQUEST",
	})
}

// HTTPStatus 暴露错误码到状态码的映射，供测试与终端使用
func HTTPStatus(err error) int {
	return errorToHTTPStatus(err)
}

// Package errors 提供带错误码的统一错误体系。
// 服务层对外只暴露 ErrorCode 分类，调用方依据错误码区分失败种类，
// 原始错误作为 cause 保留，便于日志与调试。
package errors

import (
	stdErrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 预定义错误代码
const (
	// 通用错误代码
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// 业务错误代码
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// 基础设施错误代码
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
	ErrCodeCache    ErrorCode = "CACHE_ERROR"
	ErrCodeQueue    ErrorCode = "QUEUE_ERROR"
)

// IError 错误接口
type IError interface {
	error

	// Code 获取错误代码
	Code() ErrorCode

	// Message 获取错误消息
	Message() string

	// Cause 获取原始错误
	Cause() error

	// Details 获取错误详情
	Details() map[string]any

	// Stack 获取捕获的调用栈
	Stack() string

	// WithDetails 追加详情
	WithDetails(details map[string]any) IError
}

// AppError 应用错误实现
type AppError struct {
	code    ErrorCode
	message string
	cause   error
	details map[string]any
	stack   string
}

// NewError 创建新错误
func NewError(code ErrorCode, message string) IError {
	return &AppError{
		code:    code,
		message: message,
		stack:   captureStack(),
	}
}

// NewErrorf 创建带格式化消息的新错误
func NewErrorf(code ErrorCode, format string, args ...any) IError {
	return &AppError{
		code:    code,
		message: fmt.Sprintf(format, args...),
		stack:   captureStack(),
	}
}

// WrapError 包装错误，附加错误码与消息；err 为 nil 时返回 nil
func WrapError(err error, code ErrorCode, message string) IError {
	if err == nil {
		return nil
	}
	return &AppError{
		code:    code,
		message: message,
		cause:   err,
		stack:   captureStack(),
	}
}

// NewValidationError 创建验证错误
func NewValidationError(message string) IError {
	return &AppError{
		code:    ErrCodeValidation,
		message: message,
		stack:   captureStack(),
	}
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code 获取错误代码
func (e *AppError) Code() ErrorCode { return e.code }

// Message 获取错误消息
func (e *AppError) Message() string { return e.message }

// Cause 获取原始错误
func (e *AppError) Cause() error { return e.cause }

// Details 获取错误详情
func (e *AppError) Details() map[string]any {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	return e.details
}

// Stack 获取捕获的调用栈
func (e *AppError) Stack() string { return e.stack }

// WithDetails 追加详情，返回自身便于链式调用
func (e *AppError) WithDetails(details map[string]any) IError {
	if e.details == nil {
		e.details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.details[k] = v
	}
	return e
}

// Is 支持 errors.Is 按错误码匹配
func (e *AppError) Is(target error) bool {
	if target == nil {
		return false
	}
	if appErr, ok := target.(*AppError); ok {
		return e.code == appErr.code
	}
	return false
}

// Unwrap 支持 errors.Unwrap
func (e *AppError) Unwrap() error { return e.cause }

// GetCode 提取错误码；非 IError 返回 ErrCodeInternal
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code
	}
	return ErrCodeInternal
}

// hasCode 判断错误链上是否存在指定错误码
func hasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code == code
	}
	return false
}

// IsNotFound 检查是否为未找到错误
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsForbidden 检查是否为禁止访问错误
func IsForbidden(err error) bool { return hasCode(err, ErrCodeForbidden) }

// IsValidation 检查是否为验证错误
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsConflict 检查是否为冲突错误
func IsConflict(err error) bool { return hasCode(err, ErrCodeConflict) }

// IsInvalidInput 检查是否为非法输入错误
func IsInvalidInput(err error) bool { return hasCode(err, ErrCodeInvalidInput) }

// captureStack 捕获调用栈（跳过 errors 包内部帧）
func captureStack() string {
	const depth = 16
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "runtime/") {
			break
		}
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

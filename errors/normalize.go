package errors

import (
	stdErrors "errors"

	"gocrud/repository"
)

// Normalize 将仓储层错误规范化为统一的 AppError。
//
// 设计目标：
//   - 服务层对外只暴露 ErrorCode 体系，避免调用方直面仓储"裸"错误；
//   - 保留原始错误作为 cause，方便日志与调试；
//   - 未识别的错误保持原样，交由调用方决定是否 Wrap。
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	// 已经是 AppError，直接返回
	if _, ok := err.(IError); ok {
		return err
	}

	if stdErrors.Is(err, repository.ErrEntityNotFound) {
		return WrapError(err, ErrCodeNotFound, "entity not found")
	}

	if stdErrors.Is(err, repository.ErrEntityAlreadyExists) {
		return WrapError(err, ErrCodeConflict, "entity already exists")
	}

	if stdErrors.Is(err, repository.ErrInvalidID) {
		return WrapError(err, ErrCodeInvalidInput, "invalid entity id")
	}

	// 未识别的错误保持原样
	return err
}

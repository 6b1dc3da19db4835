// Package validation 提供输入 DTO 的前置验证。
// 服务层在任何持久化访问之前执行验证，验证失败立即终止操作。
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"gocrud/domain"
	"gocrud/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IValidator 定义通用验证器接口
type IValidator interface {
	Validate(value any) error
}

// NoopValidator 默认验证器，实现为空操作
type NoopValidator struct{}

// Validate 实现 IValidator 接口
func (NoopValidator) Validate(value any) error {
	return nil
}

// SelfValidator 委托给值自身的验证器：
// 值实现 domain.IValidatable 时调用其 Validate，否则放行
type SelfValidator struct{}

// Validate 实现 IValidator 接口
func (SelfValidator) Validate(value any) error {
	if v, ok := value.(domain.IValidatable); ok {
		return v.Validate()
	}
	return nil
}

// FuncValidator 函数型验证器适配
type FuncValidator func(value any) error

// Validate 实现 IValidator 接口
func (f FuncValidator) Validate(value any) error {
	return f(value)
}

// NewValidationError 创建验证错误
func NewValidationError(message string) error {
	return errors.NewValidationError(message)
}

// ValidateRequired 验证必填字段
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(fmt.Sprintf("%s不能为空", fieldName))
	}
	return nil
}

// ValidateStringLength 验证字符串长度
func ValidateStringLength(value, fieldName string, min, max int) error {
	length := len(value)
	if length < min {
		return errors.NewValidationError(
			fmt.Sprintf("%s长度不能少于%d个字符（当前%d）", fieldName, min, length))
	}
	if max > 0 && length > max {
		return errors.NewValidationError(
			fmt.Sprintf("%s长度不能超过%d个字符（当前%d）", fieldName, max, length))
	}
	return nil
}

// ValidateIntRange 验证整数范围
func ValidateIntRange(value int, fieldName string, min, max int) error {
	if value < min {
		return errors.NewValidationError(
			fmt.Sprintf("%s不能小于%d（当前%d）", fieldName, min, value))
	}
	if value > max {
		return errors.NewValidationError(
			fmt.Sprintf("%s不能大于%d（当前%d）", fieldName, max, value))
	}
	return nil
}

// ValidatePositive 验证正数
func ValidatePositive(value int, fieldName string) error {
	if value <= 0 {
		return errors.NewValidationError(
			fmt.Sprintf("%s必须为正数（当前%d）", fieldName, value))
	}
	return nil
}

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) error {
	if email == "" {
		return errors.NewValidationError("邮箱不能为空")
	}
	if !emailRegex.MatchString(email) {
		return errors.NewValidationError("邮箱格式不正确")
	}
	return nil
}

// ValidateID 验证整数 ID 有效性
func ValidateID(id int64, fieldName string) error {
	if id <= 0 {
		return errors.NewValidationError(
			fmt.Sprintf("%s必须为正整数", fieldName))
	}
	return nil
}

// ValidatePageParams 验证分页参数（skip/take 语义）
func ValidatePageParams(skip, take int) error {
	if skip < 0 {
		return errors.NewValidationError("偏移量不能为负数")
	}
	if take < 0 {
		return errors.NewValidationError("每页大小不能为负数")
	}
	return nil
}

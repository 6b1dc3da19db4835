package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocrud/errors"
)

type selfChecked struct {
	Name string
}

func (s selfChecked) Validate() error {
	return ValidateRequired(s.Name, "名称")
}

// TestSelfValidator 测试委托给值自身的验证
func TestSelfValidator(t *testing.T) {
	v := SelfValidator{}

	assert.NoError(t, v.Validate(selfChecked{Name: "ok"}))

	err := v.Validate(selfChecked{})
	assert.True(t, errors.IsValidation(err))

	// 未实现 IValidatable 的值放行
	assert.NoError(t, v.Validate("plain string"))
	assert.NoError(t, v.Validate(nil))
}

// TestFuncValidator 测试函数型验证器
func TestFuncValidator(t *testing.T) {
	v := FuncValidator(func(value any) error {
		if value == nil {
			return NewValidationError("不能为空")
		}
		return nil
	})

	assert.NoError(t, v.Validate(1))
	assert.True(t, errors.IsValidation(v.Validate(nil)))
}

// TestValidateRequired 测试必填验证
func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("x", "字段"))
	assert.Error(t, ValidateRequired("", "字段"))
	assert.Error(t, ValidateRequired("   ", "字段"), "纯空白应视为空")
}

// TestValidateStringLength 测试长度验证
func TestValidateStringLength(t *testing.T) {
	assert.NoError(t, ValidateStringLength("abc", "字段", 1, 5))
	assert.Error(t, ValidateStringLength("", "字段", 1, 5))
	assert.Error(t, ValidateStringLength("abcdef", "字段", 1, 5))
	assert.NoError(t, ValidateStringLength("abcdef", "字段", 1, 0), "max=0 表示不限长")
}

// TestValidateIntRange 测试整数范围验证
func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(5, "字段", 1, 10))
	assert.Error(t, ValidateIntRange(0, "字段", 1, 10))
	assert.Error(t, ValidateIntRange(11, "字段", 1, 10))
}

// TestValidateEmail 测试邮箱格式验证
func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("user@"))
}

// TestValidatePageParams 测试分页参数验证
func TestValidatePageParams(t *testing.T) {
	assert.NoError(t, ValidatePageParams(0, 0))
	assert.NoError(t, ValidatePageParams(10, 20))
	assert.Error(t, ValidatePageParams(-1, 0))
	assert.Error(t, ValidatePageParams(0, -1))
}

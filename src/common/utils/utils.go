package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// validate 请求参数验证器实例
	validate *validator.Validate
	// validatorM 存储自定义的验证器函数映射
	// key: 验证规则名称 ("dprice")
	// value: 验证函数实现
	validatorM map[string]validator.Func
)

// init 初始化验证器和自定义规则
func init() {
	validatorM = map[string]validator.Func{
		"dprice": positiveDecimal, // 验证价格字段为正数
	}

	validate = validator.New()
	for tag, fn := range validatorM {
		_ = validate.RegisterValidation(tag, fn)
	}
}

var (
	// positiveDecimal 验证 decimal 金额字段必须为正数
	positiveDecimal validator.Func = func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		if ok {
			return d.IsPositive()
		}
		// 如果不是 decimal 类型, 验证失败
		return false
	}
)

// Verify 校验请求结构体上的 validate 标签
func Verify(obj interface{}) error {
	return validate.Struct(obj)
}

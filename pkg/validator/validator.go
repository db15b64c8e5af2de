// Package validator 提供 gin binding 使用的参数验证器
package validator

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator 自定义验证器，实现 binding.StructValidator
type CustomValidator struct {
	once     sync.Once
	Validate *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 验证结构体
func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if kindOfData(obj) {
		v.lazyinit()
		if err := v.Validate.Struct(obj); err != nil {
			return err
		}
	}
	return nil
}

// Engine 返回底层验证引擎
func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.Validate = validator.New()
		v.Validate.SetTagName("binding")
	})
}

func kindOfData(data interface{}) bool {
	return data != nil
}

// RegisterCustom 注册项目自定义验证规则
// cron: 验证标准五段 cron 表达式（备份配置的自定义调度）
func RegisterCustom() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
			expr := fl.Field().String()
			if expr == "" {
				return true
			}
			_, err := cron.ParseStandard(expr)
			return err == nil
		})
	}
}

var _ binding.StructValidator = (*CustomValidator)(nil)

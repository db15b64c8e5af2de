package app

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/gin-gonic/gin"
	val "github.com/go-playground/validator/v10"
)

// ValidatorInterface 验证器接口，由 binding.Validator 的实现提供
type ValidatorInterface interface {
	ValidateStruct(obj interface{}) error
	Engine() interface{}
}

// ValidError 单条参数验证错误
type ValidError struct {
	Key     string
	Message string
}

// ValidErrors 参数验证错误集合
type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

// Errors 返回所有错误消息
func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 返回逗号连接的错误消息
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ",")
}

// Maps 返回字段名到错误消息的映射
func (v ValidErrors) Maps() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// MapsToString 返回 key: message 形式的多行文本
func (v ValidErrors) MapsToString() string {
	var b strings.Builder
	for _, err := range v {
		fmt.Fprintf(&b, "%s: %s\n", err.Key, err.Message)
	}
	return b.String()
}

// BindAndValid binds request parameters and validates them
// BindAndValid 绑定请求参数并验证
// 验证错误消息使用请求语言翻译（依赖 lang 中间件注入的翻译器）
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors

	err := c.ShouldBind(v)
	if err != nil {
		verrs, ok := err.(val.ValidationErrors)
		if !ok {
			// 非验证类错误（如 JSON 格式错误）
			errs = append(errs, &ValidError{
				Key:     "body",
				Message: err.Error(),
			})
			return false, errs
		}

		trans, _ := c.Value("trans").(ut.Translator)
		if trans == nil {
			for _, verr := range verrs {
				errs = append(errs, &ValidError{
					Key:     verr.Field(),
					Message: verr.Error(),
				})
			}
			return false, errs
		}

		for key, value := range verrs.Translate(trans) {
			errs = append(errs, &ValidError{
				Key:     key,
				Message: value,
			})
		}
		return false, errs
	}

	return true, nil
}

package utils

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator 初始化验证器
func InitValidator() {
	validate = validator.New()

	// 错误中使用表单字段名, 与前端保持一致
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("form"), ",")[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	validateOnce.Do(InitValidator)
	return validate
}

// MissingFields 返回所有 required 校验失败的字段名, 顺序与结构体定义一致
// 其他类型的校验错误原样返回
func MissingFields(s interface{}) ([]string, error) {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil, nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}

	var missing []string
	for _, e := range validationErrors {
		if e.Tag() != "required" {
			return nil, fmt.Errorf("%s验证失败: %s", e.Field(), e.Tag())
		}
		missing = append(missing, e.Field())
	}
	return missing, nil
}

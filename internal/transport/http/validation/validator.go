package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"user-admin-api/internal/domain"
	resp "user-admin-api/internal/transport/http/response"
	"user-admin-api/pkg/utils"
)

var (
	once       sync.Once
	initErr    error
	engine     *validator.Validate
	Translator ut.Translator
)

// Setup 在 gin 的校验引擎上注册 json 字段名、自定义 tag 和英文文案；可重复调用
func Setup() error {
	once.Do(func() { initErr = setup() })
	return initErr
}

func setup() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	engine = v

	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("user_status", func(fl validator.FieldLevel) bool {
		return domain.Status(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("user_id", func(fl validator.FieldLevel) bool {
		return utils.IsID(fl.Field().String())
	}); err != nil {
		return err
	}

	english := en.New()
	uni := ut.New(english, english)
	Translator, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, Translator); err != nil {
		return err
	}
	return addCustomTranslations(v)
}

func addCustomTranslations(v *validator.Validate) error {
	custom := map[string]string{
		"user_status": fmt.Sprintf("{0} must be one of the following values: %s", joinValues(domain.Statuses)),
		"user_role":   fmt.Sprintf("{0} must be one of the following values: %s", joinValues(domain.Roles)),
		"user_id":     "{0} must be a UUID",
	}
	for tag, text := range custom {
		err := v.RegisterTranslation(tag, Translator, func(t ut.Translator) error {
			return t.Add(tag, text, true)
		}, func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(fe.Tag(), fe.Field())
			return msg
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// fieldName 错误里使用 json/uri/form 名（小驼峰），而不是 Go 字段名
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "uri", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func joinValues[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Struct 用 gin 同一个引擎校验（handler 自行组装的结构体）
func Struct(s any) error {
	if err := Setup(); err != nil {
		return err
	}
	return engine.Struct(s)
}

// FormatErrors validator.ValidationErrors -> 字段级错误
func FormatErrors(err error) []resp.FieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make([]resp.FieldError, 0, len(ves))
	for _, fe := range ves {
		msg := fe.Error()
		if Translator != nil {
			msg = fe.Translate(Translator)
		}
		out = append(out, resp.FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

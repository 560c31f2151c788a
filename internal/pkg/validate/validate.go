package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonField 不属于具体字段的错误
const NonField = "non_field_errors"

var phoneRegexp = regexp.MustCompile(`^\+?[1-9]\d{11,14}$`)

// FieldErrors 字段名 -> 错误信息，字段名与 JSON 字段一致
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return strings.Join(parts, "; ")
}

// Field 构造单字段错误
func Field(name, message string) FieldErrors {
	return FieldErrors{name: message}
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register 注册自定义校验规则，并使用 json 标签作为字段名
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = fld.Tag.Get("form")
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return IsAlphaSpace(fl.Field().String())
	})
}

// IsPhone 国际格式手机号
func IsPhone(s string) bool {
	return phoneRegexp.MatchString(s)
}

// IsAlphaSpace 仅包含字母和空格
func IsAlphaSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}

// Struct 使用 gin 的校验器校验结构体，返回 FieldErrors
func Struct(v interface{}) error {
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return FromBinding(err)
	}
	return nil
}

// FromBinding 把 ShouldBind 返回的错误转换为 FieldErrors
func FromBinding(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(FieldErrors, len(verrs))
		for _, fe := range verrs {
			name := fe.Field()
			if _, exists := out[name]; exists {
				continue
			}
			out[name] = message(fe)
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return Field(typeErr.Field, fmt.Sprintf("Expected a %s.", typeErr.Type.String()))
	}

	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}

	return Field(NonField, "Invalid request body.")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "phone", "alphaspace":
		return fmt.Sprintf("Invalid %s.", strings.ReplaceAll(fe.Field(), "_", " "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "datetime":
		return "Date has wrong format. Use YYYY-MM-DD."
	default:
		return "Invalid value."
	}
}

package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误字段用 json 名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// bcrypt 按字节截断，max 按字符计数不够
	_ = v.RegisterValidation("bcrypt", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

// check validates a service input struct and converts failures into a
// *ValidationError; prefix is prepended to field names (bulk inputs).
func check(in any, prefix string) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &ValidationError{Fields: map[string][]string{}}
	for _, fe := range ves {
		name := prefix + fe.Field()
		out.Fields[name] = append(out.Fields[name], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "bcrypt":
		return fmt.Sprintf("Ensure this field has no more than %d bytes.", maxPasswordBytes)
	case "gt":
		return "A valid id is required."
	default:
		return "Invalid value."
	}
}

func merge(dst *ValidationError, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for k, v := range ve.Fields {
		dst.Fields[k] = append(dst.Fields[k], v...)
	}
	return nil
}

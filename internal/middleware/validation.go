package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators wires custom validation tags into gin's binding
// validator and makes error messages use the json field names.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	// secretkind restricts the secret-kind enum on credential submissions.
	_ = v.RegisterValidation("secretkind", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "plaintext", "prehashed":
			return true
		}
		return false
	})
}

package schemabuilder

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

// NewValidate returns the validator shared by every argument binding. Validation errors name
// fields by their GraphQL argument name.
func NewValidate() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.Split(field.Tag.Get("graphql"), ",")[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

package schemabuilder

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/shyptr/serlo-gateway/errors"
)

// BindArgs decodes coerced field arguments into the struct dst points to, matching graphql tags,
// and runs the validate tags of the struct. Failures are BAD_USER_INPUT errors.
func BindArgs(args map[string]interface{}, dst interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "graphql",
		Result:           dst,
		Squash:           true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return errors.InvalidInput(err, "invalid arguments")
	}
	if err := NewValidate().Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if !stderrors.As(err, &validationErrs) {
			return err
		}
		msgs := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			msgs = append(msgs, fmt.Sprintf("argument %s fails %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return errors.InvalidInput(err, strings.Join(msgs, "; "))
	}
	return nil
}

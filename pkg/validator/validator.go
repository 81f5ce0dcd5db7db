package validator

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string `json:"failed_field"`
	Tag         string `json:"tag"`
	Value       string `json:"value"`
}

var validate = validator.New()

var paymentMethods = map[string]bool{
	"gcash":         true,
	"paymaya":       true,
	"bank_transfer": true,
}

func init() {
	// Money fields are validated as numbers, so tags like gt=0 apply to them
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	validate.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return paymentMethods[fl.Field().String()]
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []*ErrorResponse{{FailedField: "", Tag: err.Error()}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errs = append(errs, &element)
		}
	}
	return errs
}

// Check validates data and folds the first failure into an error
func Check(data interface{}) error {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, first.FailedField, first.Tag)
}

var ErrValidation = errors.New("validation failed")

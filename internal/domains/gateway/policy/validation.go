package policy

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"xrpl-gateway/go-backend/internal/currency"
	"xrpl-gateway/go-backend/internal/ledger/addresscodec"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrValidatorInit = errors.New("validator initialization failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidators() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())
	vld.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"ledger_address": func(fl validator.FieldLevel) bool {
			str := fl.Field().String()
			return str == "" || addresscodec.IsValidAddress(str)
		},
		"ledger_seed": func(fl validator.FieldLevel) bool {
			str := fl.Field().String()
			if str == "" {
				return true
			}
			_, _, err := addresscodec.DecodeSeed(str)
			return err == nil
		},
		"currency_symbol": func(fl validator.FieldLevel) bool {
			str := fl.Field().String()
			if str == "" || currency.IsNative(str) {
				return true
			}
			_, err := currency.Canonicalize(str)
			return err == nil
		},
		"positive_amount": func(fl validator.FieldLevel) bool {
			str := fl.Field().String()
			if str == "" {
				return true
			}
			d, err := decimal.NewFromString(str)
			return err == nil && d.IsPositive()
		},
		"nonnegative_amount": func(fl validator.FieldLevel) bool {
			str := fl.Field().String()
			if str == "" {
				return true
			}
			d, err := decimal.NewFromString(str)
			return err == nil && !d.IsNegative()
		},
	}
	for tag, fn := range rules {
		if err := vld.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("%w: failed to register %q: %w", ErrValidatorInit, tag, err)
		}
	}
	vld.RegisterStructValidation(validateIssuedAmount, AmountInput{})
	vld.RegisterStructValidation(validateTransfer, TransferInput{})
	return vld, nil
}

// validateIssuedAmount requires an issuer for every non-native currency.
func validateIssuedAmount(sl validator.StructLevel) {
	in := sl.Current().Interface().(AmountInput)
	if in.Currency != "" && !currency.IsNative(in.Currency) && in.Issuer == "" {
		sl.ReportError(in.Issuer, "issuer", "Issuer", "required", "")
	}
}

func validateTransfer(sl validator.StructLevel) {
	in := sl.Current().Interface().(TransferInput)
	if in.Currency != "" && !currency.IsNative(in.Currency) && in.Issuer == "" {
		sl.ReportError(in.Issuer, "issuer", "Issuer", "required", "")
	}
}

func getValidator() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate, errValidate = initValidators()
	})
	return validate, errValidate
}

// Validate checks input against its struct tags and returns the first
// violation as a *ParameterError.
func Validate(input any) error {
	vld, err := getValidator()
	if err != nil {
		return err
	}
	if err := vld.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return toParameterError(validationErrors[0])
		}
		return &ParameterError{Reason: err.Error(), Err: ErrInvalidParameter}
	}
	return nil
}

var reasons = map[string]func(param string) string{
	"ledger_address":     func(string) string { return "must be a valid account address" },
	"ledger_seed":        func(string) string { return "must be a valid family seed" },
	"currency_symbol":    func(string) string { return "must be a 3 character code or fit in 20 bytes" },
	"positive_amount":    func(string) string { return "must be a positive amount" },
	"nonnegative_amount": func(string) string { return "must be a non-negative amount" },
	"oneof":              func(p string) string { return "must be one of [" + p + "]" },
	"max":                func(p string) string { return "must be at most " + p + " characters" },
}

func toParameterError(fe validator.FieldError) error {
	field := fieldPath(fe.Namespace())
	if fe.Tag() == "required" {
		return missing(field)
	}
	if reason, ok := reasons[fe.Tag()]; ok {
		return invalid(field, reason(fe.Param()))
	}
	return invalid(field, fmt.Sprintf("failed %q check", fe.Tag()))
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

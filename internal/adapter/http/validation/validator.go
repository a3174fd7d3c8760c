package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"taskhub/internal/core/domain"
	"taskhub/internal/core/model/request"
	"taskhub/pkg/optional"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())
	Validator.RegisterTagNameFunc(jsonFieldName)
	Validator.RegisterCustomTypeFunc(optionalValue,
		optional.Field[string]{},
		optional.Field[int]{},
		optional.Field[[]string]{},
	)

	if err := Validator.RegisterValidation("isodate", isISODate); err != nil {
		panic(err)
	}

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

func addCustomTranslations() {
	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "Please add a {0}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})

	Validator.RegisterTranslation("isodate", Translator, func(ut ut.Translator) error {
		return ut.Add("isodate", "{0} must be a valid ISO 8601 date", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("isodate", fe.Field())
		return t
	})

	Validator.RegisterTranslation("uuid", Translator, func(ut ut.Translator) error {
		return ut.Add("uuid", "{0} must contain valid user ids", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i > 0 {
			field = field[:i]
		}

		t, _ := ut.T("uuid", field)
		return t
	})
}

// Struct validates s and converts any failure into a domain validation
// error carrying one entry per field.
func Struct(s any) error {
	if err := Validator.Struct(s); err != nil {
		return ToDomainError(err)
	}

	return nil
}

func ToDomainError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return domain.ErrInvalidRequestPayload
	}

	return domain.NewValidationErrors(FormatValidationErrors(validationErrors))
}

func FormatValidationErrors(validationErrors validator.ValidationErrors) []domain.FieldError {
	fields := make([]domain.FieldError, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		fields = append(fields, domain.FieldError{
			Field:   fieldError.Field(),
			Message: fieldError.Translate(Translator),
		})
	}

	return fields
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

func optionalValue(field reflect.Value) any {
	if value, ok := field.Interface().(interface{ ValidationValue() any }); ok {
		return value.ValidationValue()
	}

	return nil
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := request.ParseDate(fl.Field().String())
	return err == nil
}

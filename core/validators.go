package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "{0} cannot be blank"

	requiredTag  = "required"
	requiredText = "{0} is required"
)

// NewTranslator returns the english translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use form tag names (or JSON ones) for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("form")
		if tag == "" {
			tag = fld.Tag.Get("json")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)
	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// RegisterFieldTranslation overrides the message of `tag` for a single field.
// `namespace` is the field namespace as reported by the validator, e.g. "Registration.email".
func RegisterFieldTranslation(translator ut.Translator, namespace, tag, text string) {
	_ = translator.Add(fieldTranslationKey(namespace, tag), text, true)
}

func fieldTranslationKey(namespace, tag string) string {
	return namespace + "|" + tag
}

// TranslateFieldError returns the field-specific message for fe, or the tag's generic one.
func TranslateFieldError(translator ut.Translator, fe validator.FieldError) string {
	if msg, err := translator.T(fieldTranslationKey(fe.Namespace(), fe.Tag())); err == nil && msg != "" {
		return msg
	}
	return fe.Translate(translator)
}

// ToValidationError converts validator.ValidationErrors into a *ValidationError.
// Other errors are returned unchanged.
func ToValidationError(err error, translator ut.Translator) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: TranslateFieldError(translator, fe)})
	}
	return NewValidationError(nil, flds...)
}

// FieldErrors maps validation failures to the first message of each field.
// It returns nil when err carries no field errors.
func FieldErrors(err error, translator ut.Translator) map[string]string {
	var vErr *ValidationError
	if errors.As(ToValidationError(err, translator), &vErr) {
		return vErr.FieldMap()
	}
	return nil
}

// Custom Global Validators

// notBlankValidation rejects strings made only of whitespace.
func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

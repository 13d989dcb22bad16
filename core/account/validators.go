package account

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/rogerjeasy/letusconnect/core"
)

var (
	programTag  = "program"
	programText = "Select a program from the list."

	// messages shown next to the registration fields
	registrationTexts = []struct{ field, tag, text string }{
		{"Registration.email", "email", "Invalid email address."},
		{"Registration.username", "min", "Username must be at least 3 characters."},
		{"Registration.password", "min", "Password must be at least 6 characters."},
		{"Registration.confirmPassword", "min", "Confirm Password must be at least 6 characters."},
		{"Registration.confirmPassword", "eqfield", "Passwords do not match."},
		{"Registration.program", "required", "Program affiliation is required."},
		{"Registration.program", programTag, programText},
	}
)

// RegisterValidators registers the account validation tags and messages.
func RegisterValidators(validate *validator.Validate, translator ut.Translator, opts core.Options) {
	_ = validate.RegisterValidation(programTag, programValidation(opts.Programs))
	core.RegisterCustomTranslation(validate, translator, programTag, programText)

	for _, rt := range registrationTexts {
		core.RegisterFieldTranslation(translator, rt.field, rt.tag, rt.text)
	}
}

// programValidation checks that the program is one of the catalog's programs.
func programValidation(programs core.OptionList) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if program, ok := fl.Field().Interface().(string); ok {
			return programs.Has(program)
		}
		return false
	}
}

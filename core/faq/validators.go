package faq

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/rogerjeasy/letusconnect/core"
)

var (
	categoryTag  = "faqcategory"
	categoryText = "Select a category from the list."

	newFAQTexts = []struct{ field, tag, text string }{
		{"NewFAQ.question", "required", "Question is required."},
		{"NewFAQ.question", "notblank", "Question is required."},
		{"NewFAQ.response", "required", "Response is required."},
		{"NewFAQ.response", "notblank", "Response is required."},
		{"NewFAQ.category", "required", "Category is required."},
	}
)

// RegisterValidators registers the FAQ validation tags and messages.
func RegisterValidators(validate *validator.Validate, translator ut.Translator, opts core.Options) {
	_ = validate.RegisterValidation(categoryTag, func(fl validator.FieldLevel) bool {
		if category, ok := fl.Field().Interface().(string); ok {
			return opts.FAQCategories.Has(category)
		}
		return false
	})
	core.RegisterCustomTranslation(validate, translator, categoryTag, categoryText)

	for _, nt := range newFAQTexts {
		core.RegisterFieldTranslation(translator, nt.field, nt.tag, nt.text)
	}
}

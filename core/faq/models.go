package faq

import (
	"github.com/go-playground/validator/v10"

	"github.com/rogerjeasy/letusconnect/core"
)

// FAQ is a question and its answer as returned by `GET /api/faqs`.
// Timestamps are kept as sent by the backend; empty when unknown.
type FAQ struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	Response  string `json:"response"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Category  string `json:"category"`
	Username  string `json:"username"`
}

// NewFAQ is the body of `POST /api/faqs`.
type NewFAQ struct {
	Question string `json:"question" form:"question" validate:"required,notblank"`
	Response string `json:"response" form:"response" validate:"required,notblank"`
	Category string `json:"category" form:"category" validate:"required,faqcategory"`
}

func NewFAQFromValues(values map[string]string) NewFAQ {
	return NewFAQ{
		Question: values["question"],
		Response: values["response"],
		Category: values["category"],
	}
}

func (nf *NewFAQ) Validate(validate *validator.Validate) error {
	nf.Question = core.CleanString(nf.Question)
	nf.Response = core.CleanString(nf.Response)
	nf.Category = core.CleanString(nf.Category)
	return validate.Struct(nf)
}

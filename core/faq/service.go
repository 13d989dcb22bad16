package faq

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rogerjeasy/letusconnect/core"
)

const faqsPath = "/api/faqs"

// Service talks to the FAQ endpoints of the REST API.
type Service struct {
	api    core.APIClient
	logger core.Logger
}

func NewService(api core.APIClient, logger core.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// List fetches every FAQ.
func (svc *Service) List(ctx context.Context) core.Result[[]FAQ] {
	var faqs []FAQ
	if err := svc.api.Do(ctx, core.APIRequest{Method: http.MethodGet, Path: faqsPath}, &faqs); err != nil {
		return core.Failure[[]FAQ](svc.failure("listing faqs", err))
	}
	if faqs == nil {
		faqs = []FAQ{}
	}
	return core.Success(faqs)
}

// Create adds a FAQ on behalf of the token's owner.
func (svc *Service) Create(ctx context.Context, token string, nf NewFAQ) core.Result[FAQ] {
	req := core.APIRequest{Method: http.MethodPost, Path: faqsPath, Body: nf, Auth: true, Token: token}
	var created FAQ
	if err := svc.api.Do(ctx, req, &created); err != nil {
		return core.Failure[FAQ](svc.failure("creating faq", err))
	}
	return core.Success(created)
}

// Delete removes the FAQ with the given id.
func (svc *Service) Delete(ctx context.Context, token, id string) core.Result[struct{}] {
	req := core.APIRequest{
		Method: http.MethodDelete,
		Path:   faqsPath + "/" + url.PathEscape(id),
		Auth:   true,
		Token:  token,
	}
	if err := svc.api.Do(ctx, req, nil); err != nil {
		return core.Failure[struct{}](svc.failure("deleting faq "+id, err))
	}
	return core.Success(struct{}{})
}

func (svc *Service) failure(msg string, err error) *core.RequestError {
	reqErr := core.AsRequestError(err)
	svc.logger.Warn(msg, reqErr)
	return reqErr
}

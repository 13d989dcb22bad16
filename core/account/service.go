package account

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/form"
)

const (
	registerPath = "/api/users/register"

	// RegisterFailureMessage is shown when the backend does not explain a failed registration.
	RegisterFailureMessage = "Failed to register. Please try again."
)

type (
	// AvatarGenerator produces a default profile picture.
	AvatarGenerator interface {
		Avatar() string
	}

	// SessionWriter receives the user and token of a successful registration.
	SessionWriter interface {
		Populate(ctx context.Context, usr User, token string) error
	}

	Service struct {
		api      core.APIClient
		avatars  AvatarGenerator
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(api core.APIClient, avatars AvatarGenerator, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{api: api, avatars: avatars, validate: validate, logger: logger}
}

// NewRegistrationForm returns an empty registration form controller.
func NewRegistrationForm(translator ut.Translator) *form.Controller {
	defaults := map[string]string{
		"email":           "",
		"username":        "",
		"password":        "",
		"confirmPassword": "",
		"program":         "",
	}
	return form.NewController(translator, defaults).
		WithFailureMessage(RegisterFailureMessage).
		Sensitive("password", "confirmPassword")
}

// SubmitRegistration runs values through the registration form: validation, then
// registration, then population of sess. Nothing is sent when validation fails.
func (svc *Service) SubmitRegistration(ctx context.Context, ctrl *form.Controller, values map[string]string, sess SessionWriter) error {
	var reg Registration
	validateFn := func(vals map[string]string) error {
		reg = RegistrationFromValues(vals)
		return reg.Validate(svc.validate)
	}
	send := func(ctx context.Context) error {
		res := svc.Register(ctx, reg)
		if !res.Ok() {
			return res.Failure()
		}
		auth := res.Value()
		// the account exists once registered: persistence failures are only logged
		if err := sess.Populate(ctx, auth.User, auth.Token); err != nil {
			svc.logger.Error("populating session", errors.Wrap(err, "populating session"), auth.User)
		}
		return nil
	}
	return ctrl.Submit(ctx, values, validateFn, send)
}

// Register submits a validated registration.
// The returned user always has a profile picture: a generated one fills the gap when the backend sent none.
func (svc *Service) Register(ctx context.Context, reg Registration) core.Result[Auth] {
	req := core.APIRequest{
		Method: http.MethodPost,
		Path:   registerPath,
		Body: registerRequest{
			Email:    reg.Email,
			Username: reg.Username,
			Password: reg.Password,
			Program:  reg.Program,
		},
	}

	var auth Auth
	if err := svc.api.Do(ctx, req, &auth); err != nil {
		reqErr := core.AsRequestError(err)
		svc.logger.Warn("registration failed", reqErr)
		return core.Failure[Auth](core.NewRequestError(reqErr.Status, reqErr.MessageOr(RegisterFailureMessage), reqErr.Err))
	}

	if auth.User.ProfilePicture == "" && svc.avatars != nil {
		auth.User.ProfilePicture = svc.avatars.Avatar()
	}
	return core.Success(auth)
}

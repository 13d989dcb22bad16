package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/form"
	"github.com/rogerjeasy/letusconnect/core/session"
)

const csrfField = "_csrf"

// pageData is handed to every page template.
type pageData struct {
	Title   string
	AppName string
	CSRF    string
	Session session.Snapshot
	Content interface{}
}

func render(ctx echo.Context, code int, name, title string, content interface{}) error {
	data := pageData{Title: title, Content: content}
	if token, ok := ctx.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
		data.CSRF = token
	}
	if ws := getWorkspace(ctx); ws != nil {
		data.Session = ws.sess.Snapshot()
	}
	return ctx.Render(code, name, data)
}

func renderLoading(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "loading", "Loading", nil)
}

// adminOnly lets administrators through. Requests made while the session is
// still being restored get the loading page, or are sent back to home when
// they are not GETs.
func adminOnly(home string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			switch getWorkspace(ctx).sess.Snapshot().Gate(account.RoleAdmin) {
			case session.AccessLoading:
				if ctx.Request().Method != http.MethodGet {
					return ctx.Redirect(http.StatusSeeOther, home)
				}
				return renderLoading(ctx)
			case session.AccessDenied:
				return core.ErrAccessDenied
			}
			return next(ctx)
		}
	}
}

type pagesApi struct {
	accountSvc *account.Service
	programs   core.OptionList
}

func registerPages(e *echo.Echo, opts *Options) {
	api := pagesApi{accountSvc: opts.AccountSvc, programs: opts.Options.Programs}

	e.GET("/", api.home)
	e.GET("/dashboard", api.dashboard)
	e.POST("/logout", api.logout)
	e.GET("/register", api.registerForm)
	e.POST("/register", api.register)
}

// Handlers

func (api *pagesApi) home(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "home", "Mentoring", nil)
}

func (api *pagesApi) dashboard(ctx echo.Context) error {
	snap := getWorkspace(ctx).sess.Snapshot()
	switch {
	case snap.Loading:
		return renderLoading(ctx)
	case snap.User == nil:
		return ctx.Redirect(http.StatusSeeOther, "/register")
	}
	return render(ctx, http.StatusOK, "dashboard", "Dashboard", nil)
}

func (api *pagesApi) logout(ctx echo.Context) error {
	ws := getWorkspace(ctx)
	if err := ws.sess.Clear(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	ws.register.Reset()
	return ctx.Redirect(http.StatusSeeOther, "/")
}

type registerView struct {
	Form     form.State
	Programs core.OptionList
}

func (api *pagesApi) renderRegister(ctx echo.Context, code int) error {
	state := getWorkspace(ctx).register.State()
	return render(ctx, code, "register", "Register", registerView{Form: state, Programs: api.programs})
}

func (api *pagesApi) registerForm(ctx echo.Context) error {
	return api.renderRegister(ctx, http.StatusOK)
}

func (api *pagesApi) register(ctx echo.Context) error {
	values, err := formValues(ctx, "email", "username", "password", "confirmPassword", "program")
	if err != nil {
		return err
	}

	ws := getWorkspace(ctx)
	err = api.accountSvc.SubmitRegistration(ctx.Request().Context(), ws.register, values, ws.sess)
	if err == nil {
		ws.register.Reset()
		return ctx.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return api.renderRegister(ctx, submitStatus(err))
}

// submitStatus maps a failed form submission to the status of the re-rendered form.
func submitStatus(err error) int {
	var vErr *core.ValidationError
	var reqErr *core.RequestError
	switch {
	case errors.Is(err, core.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &reqErr):
		return requestStatus(reqErr)
	default:
		return http.StatusInternalServerError
	}
}

// formValues reads the named fields of a submitted form.
func formValues(ctx echo.Context, fields ...string) (map[string]string, error) {
	params, err := ctx.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid form data.").SetInternal(err)
	}
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		values[field] = params.Get(field)
	}
	return values, nil
}

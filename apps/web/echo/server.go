package echoweb

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/faq"
	"github.com/rogerjeasy/letusconnect/core/session"
)

type (
	Options struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Options    core.Options
		Sessions   session.Store
		AccountSvc *account.Service
		FAQSvc     *faq.Service

		// SignalShutdown is called when a handler fails with a shutdown error.
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts       *Options
		app        *echo.Echo
		renderer   *Renderer
		cookie     sessionCookie
		workspaces *workspaces
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) (Server, error) {
	renderer, err := NewRenderer(opts.Conf.AppName, opts.Options)
	if err != nil {
		return nil, errors.Wrap(err, "loading templates")
	}
	conf := opts.Conf
	s := &server{
		opts:     opts,
		app:      echo.New(),
		renderer: renderer,
		cookie:   newSessionCookie(conf),
	}
	s.workspaces = newWorkspaces(conf.Server.SessionTTL, s.newWorkspace)
	s.setup()
	return s, nil
}

func (s *server) newWorkspace(id string) *workspace {
	sess := session.New(id, s.opts.Sessions, s.opts.Logger)
	return &workspace{
		sess:     sess,
		register: account.NewRegistrationForm(s.opts.Translator),
		faqs:     faq.NewAdmin(s.opts.FAQSvc, sess, s.opts.Validate, s.opts.Translator, s.opts.Logger),
	}
}

func (s *server) setup() {
	conf := s.opts.Conf
	signalShutdown := s.opts.SignalShutdown
	if signalShutdown == nil {
		signalShutdown = func() {}
	}

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	if !conf.Server.DisableCSRF {
		s.app.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + csrfField,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}
	s.app.Use(s.workspaceMiddleware)

	s.app.Renderer = s.renderer
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, signalShutdown)
	s.app.Debug = conf.Debug

	registerPages(s.app, s.opts)
	registerFAQAdmin(s.app.Group(faqsPath, adminOnly(faqsPath)), s.opts)
	registerTasks(s.app.Group(tasksPath, adminOnly(tasksPath)), s.opts)
}

// workspaceMiddleware attaches the browser's workspace to the request, issuing
// a new session id when the cookie is missing or invalid.
// A freshly restored session gets up to `server.restoreWait` to load before the page renders.
func (s *server) workspaceMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, ok := s.cookie.read(ctx)
		if !ok {
			id = uuid.NewString()
			if err := s.cookie.write(ctx, id); err != nil {
				return errors.Wrap(err, "writing session cookie")
			}
		}

		ws := s.workspaces.get(id)
		if wait := s.opts.Conf.Server.RestoreWait; wait > 0 {
			wctx, cancel := context.WithTimeout(ctx.Request().Context(), wait)
			ws.sess.WaitRestored(wctx)
			cancel()
		}
		ctx.Set(workspaceKey, ws)
		return next(ctx)
	}
}

func (s *server) Start() error {
	err := s.app.Start(s.opts.Conf.Server.Address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *server) Stop(ctx context.Context) error {
	defer s.workspaces.closeAll()
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

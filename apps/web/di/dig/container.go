package dig_container

import (
	"io"
	"log"
	"os"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	echoweb "github.com/rogerjeasy/letusconnect/apps/web/echo"
	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/faq"
	"github.com/rogerjeasy/letusconnect/core/session"
	avatarsvc "github.com/rogerjeasy/letusconnect/services/avatar"
	logsvc "github.com/rogerjeasy/letusconnect/services/logger"
	"github.com/rogerjeasy/letusconnect/services/restapi"
	"github.com/rogerjeasy/letusconnect/storage/database"
)

// Shutdown receives the signal asking the application to stop.
type Shutdown chan os.Signal

func newShutdown() Shutdown {
	return make(Shutdown, 1)
}

func newZapLogger(conf *core.Config) (*zap.Logger, error) {
	return logsvc.NewZapLogger(conf.LogLevel)
}

func newLogger(conf *core.Config, zl *zap.Logger) core.Logger {
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

// StoreParam carries the session store and the database it lives in.
type StoreParam struct {
	dig.Out
	Store  session.Store
	Closer io.Closer `name:"storeCloser"`
}

func newSessionStore(conf *core.Config, logger core.Logger) (StoreParam, error) {
	store, closer, err := database.NewSessionStore(conf)
	if err != nil {
		logger.Error("setting up session store", err)
		return StoreParam{}, err
	}
	return StoreParam{Store: store, Closer: closer}, nil
}

type serverParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Options    core.Options
	Sessions   session.Store
	AccountSvc *account.Service
	FAQSvc     *faq.Service
	Shutdown   Shutdown
}

func newServer(p serverParams) (echoweb.Server, error) {
	return echoweb.NewServer(&echoweb.Options{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		Options:    p.Options,
		Sessions:   p.Sessions,
		AccountSvc: p.AccountSvc,
		FAQSvc:     p.FAQSvc,
		SignalShutdown: func() {
			select {
			case p.Shutdown <- syscall.SIGTERM:
			default: // already shutting down
			}
		},
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newZapLogger))
	must(c.Provide(newLogger))
	must(c.Provide(newShutdown))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(core.LoadOptions))
	must(c.Provide(newSessionStore))
	must(c.Provide(restapi.NewClient, dig.As(new(core.APIClient))))
	must(c.Provide(avatarsvc.NewGenerator, dig.As(new(account.AvatarGenerator))))
	must(c.Provide(account.NewService))
	must(c.Provide(faq.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

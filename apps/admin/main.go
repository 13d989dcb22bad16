package main

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/session"
	avatarsvc "github.com/rogerjeasy/letusconnect/services/avatar"
	logsvc "github.com/rogerjeasy/letusconnect/services/logger"
	"github.com/rogerjeasy/letusconnect/services/restapi"
	"github.com/rogerjeasy/letusconnect/storage/database"
	inmemdb "github.com/rogerjeasy/letusconnect/storage/database/inmem"
	sqlxrepos "github.com/rogerjeasy/letusconnect/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger(conf.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = zl.Sync() }()
	logger = logsvc.NewLogger(zl.Named("admin"))

	// set up session store
	var (
		db    *sqlx.DB
		store session.Store
	)
	if conf.Database.Engine == database.EngineMemory {
		store = inmemdb.NewSessionRepository(inmemdb.Open())
	} else {
		db, err = database.Open(conf)
		errAndDie(err)
		defer db.Close()
		store = sqlxrepos.NewSessionRepository(db)
	}

	// set up validation
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	opts, err := core.LoadOptions()
	errAndDie(err)
	account.RegisterValidators(validate, translator, opts)

	// start CLI
	api := restapi.NewClient(conf, logger)
	cli := commandLine{
		conf:       conf,
		db:         db,
		sessions:   store,
		accounts:   account.NewService(api, avatarsvc.NewGenerator(conf), validate, logger),
		validate:   validate,
		translator: translator,
		out:        os.Stdout,
		nowFunc:    time.Now,
		newID:      uuid.NewString,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}

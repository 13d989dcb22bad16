package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type (
	registrar interface {
		Register(ctx context.Context, reg account.Registration) core.Result[account.Auth]
	}

	commandLine struct {
		conf       *core.Config
		db         *sqlx.DB // nil with the memory engine
		sessions   session.Store
		accounts   registrar
		validate   *validator.Validate
		translator ut.Translator
		out        io.Writer
		nowFunc    func() time.Time
		newID      func() string
	}
)

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  register -email EMAIL -username USERNAME -program PROGRAM - register an account; the password is prompted next")
	fmt.Fprintln(cli.out, "  setsession -username USERNAME -token TOKEN [-id SESSION_ID] [-uid ID] [-email EMAIL] [-role ROLES] - save a session a browser can resume")
	fmt.Fprintln(cli.out, "  sessions - list the saved sessions")
	fmt.Fprintln(cli.out, "  revoke -id SESSION_ID - log a browser out")
	fmt.Fprintln(cli.out, "  purge -older-than DURATION - delete sessions idle for longer than DURATION (e.g. 720h)")
	fmt.Fprintln(cli.out, "  migrate - create the session table")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	registerCmd := flag.NewFlagSet("register", flag.ContinueOnError)
	registerEmail := registerCmd.String("email", "", "The account's email address.")
	registerUname := registerCmd.String("username", "", "The account's username.")
	registerProgram := registerCmd.String("program", "", "The program the user is affiliated with.")

	setSessionCmd := flag.NewFlagSet("setsession", flag.ContinueOnError)
	setSessionID := setSessionCmd.String("id", "", "The session id. A new one is generated when empty.")
	setSessionUID := setSessionCmd.String("uid", "", "The user's id.")
	setSessionUname := setSessionCmd.String("username", "", "The user's username.")
	setSessionEmail := setSessionCmd.String("email", "", "The user's email address.")
	setSessionRoles := setSessionCmd.String("role", account.RoleUser, "Comma separated roles, e.g. admin or admin,mentor.")
	setSessionToken := setSessionCmd.String("token", "", "The API token of the user.")

	revokeCmd := flag.NewFlagSet("revoke", flag.ContinueOnError)
	revokeID := revokeCmd.String("id", "", "The session id.")

	purgeCmd := flag.NewFlagSet("purge", flag.ContinueOnError)
	purgeOlderThan := purgeCmd.Duration("older-than", 30*24*time.Hour, "Idle time after which a session is deleted.")

	for _, fs := range []*flag.FlagSet{registerCmd, setSessionCmd, revokeCmd, purgeCmd} {
		fs.SetOutput(cli.out)
	}

	ctx := context.Background()
	switch args[1] {
	case "register":
		if err := registerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *registerEmail == "" || *registerUname == "" || *registerProgram == "" {
			registerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword("Enter password:")
		if err != nil {
			return err
		}
		confirm, err := cli.readPassword("Confirm password:")
		if err != nil {
			return err
		}
		return cli.register(ctx, account.Registration{
			Email:           *registerEmail,
			Username:        *registerUname,
			Password:        pwd,
			ConfirmPassword: confirm,
			Program:         *registerProgram,
		})

	case "setsession":
		if err := setSessionCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setSessionUname == "" || *setSessionToken == "" {
			setSessionCmd.Usage()
			return errHelp
		}
		usr := account.User{
			ID:       *setSessionUID,
			Username: core.CleanString(*setSessionUname),
			Email:    core.CleanString(*setSessionEmail),
			Role:     splitRoles(*setSessionRoles),
		}
		return cli.saveSession(ctx, *setSessionID, usr, *setSessionToken)

	case "sessions":
		return cli.listSessions(ctx)

	case "revoke":
		if err := revokeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *revokeID == "" {
			revokeCmd.Usage()
			return errHelp
		}
		return cli.revoke(ctx, *revokeID)

	case "purge":
		if err := purgeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *purgeOlderThan <= 0 {
			purgeCmd.Usage()
			return errHelp
		}
		return cli.purge(ctx, *purgeOlderThan)

	case "migrate":
		return cli.migrate()

	default:
		cli.printUsage()
		return errHelp
	}
}

func splitRoles(s string) account.Roles {
	var roles account.Roles
	for _, role := range strings.Split(s, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

func (cli *commandLine) readPassword(prompt string) (string, error) {
	fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

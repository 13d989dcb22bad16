package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	echoweb "github.com/rogerjeasy/letusconnect/apps/web/echo"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/session"
)

// saveSession persists a session for usr and prints the cookie a browser needs to resume it.
// An empty id gets a new one.
func (cli *commandLine) saveSession(ctx context.Context, id string, usr account.User, token string) error {
	if id == "" {
		id = cli.newID()
	}
	rec := session.Record{ID: id, User: usr, Token: token, UpdatedAt: cli.nowFunc().UTC()}
	if err := cli.sessions.Save(ctx, rec); err != nil {
		return errors.Wrap(err, "saving session")
	}
	cookie, err := echoweb.SessionCookieValue(cli.conf, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "session %s\n", id)
	fmt.Fprintf(cli.out, "cookie %s=%s\n", cli.conf.Server.SessionCookie, cookie)
	return nil
}

func (cli *commandLine) listSessions(ctx context.Context) error {
	recs, err := cli.sessions.List(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cli.out, "no sessions")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tROLES\tUPDATED")
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.ID, rec.User.Username, strings.Join(rec.User.Role, ","), rec.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return w.Flush()
}

func (cli *commandLine) revoke(ctx context.Context, id string) error {
	if err := cli.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return errors.Errorf("no session %q", id)
		}
		return err
	}
	fmt.Fprintf(cli.out, "revoked %s\n", id)
	return nil
}

func (cli *commandLine) purge(ctx context.Context, olderThan time.Duration) error {
	n, err := cli.sessions.Purge(ctx, cli.nowFunc().Add(-olderThan))
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "purged %d sessions\n", n)
	return nil
}

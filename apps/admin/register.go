package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
)

// register creates an account through the REST API, the same way the registration page does.
// Field errors are printed one per line, sorted by field.
func (cli *commandLine) register(ctx context.Context, reg account.Registration) error {
	if err := reg.Validate(cli.validate); err != nil {
		err = core.ToValidationError(err, cli.translator)
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		fields := vErr.FieldMap()
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cli.out, "  %s: %s\n", name, fields[name])
		}
		return vErr
	}

	res := cli.accounts.Register(ctx, reg)
	if !res.Ok() {
		return res.Err()
	}
	auth := res.Value()
	fmt.Fprintf(cli.out, "registered %s (%s)\n", auth.User.Username, auth.User.ID)
	return cli.saveSession(ctx, "", auth.User, auth.Token)
}

package main

import (
	"fmt"

	"github.com/rogerjeasy/letusconnect/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate() error {
	if cli.db == nil {
		fmt.Fprintln(cli.out, "nothing to migrate: sessions are kept in memory")
		return nil
	}
	if err := migrateFunc(cli.db); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "schema up to date")
	return nil
}

// Web serves the LetUsConnect pages: registration, the member dashboard and
// the FAQ administration, backed by the LetUsConnect REST API.
//
// Usage:
//
//	web serve [--addr :8080]
//	web version
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	dig_container "github.com/rogerjeasy/letusconnect/apps/web/di/dig"
	echoweb "github.com/rogerjeasy/letusconnect/apps/web/echo"
	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/faq"
)

var build = "dev" // set with -ldflags "-X main.build=..."

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "web",
	Short: "LetUsConnect web front end",
	Long: `Serves the LetUsConnect pages on top of the LetUsConnect REST API.

Configuration is read from config/.env.<env> and the environment, prefixed
with the upper-cased ENV (DEV by default), e.g. DEV_BACKEND_BASEURL.`,
	Version: build,
}

var addr string

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.address")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := dig_container.New()
		if addr != "" {
			if err := c.Invoke(func(conf *core.Config) { conf.Server.Address = addr }); err != nil {
				return err
			}
		}
		return serve(c)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("letusconnect-web %s\n", build)
	},
}

type appParams struct {
	dig.In
	Conf        *core.Config
	Logger      core.Logger
	ZapLogger   *zap.Logger
	Validate    *validator.Validate
	Translator  ut.Translator
	Options     core.Options
	StoreCloser io.Closer `name:"storeCloser"`
	Server      echoweb.Server
	Shutdown    dig_container.Shutdown
}

func serve(c *dig.Container) error {
	return c.Invoke(func(p appParams) error {
		// =========================================================================
		// Initialize App

		p.Logger.Info(fmt.Sprintf("Application initializing : version %q", build), map[string]interface{}{"env": p.Conf.Env})

		core.InitValidators(p.Validate, p.Translator)
		account.RegisterValidators(p.Validate, p.Translator, p.Options)
		faq.RegisterValidators(p.Validate, p.Translator, p.Options)

		defer func() {
			if err := p.StoreCloser.Close(); err != nil {
				p.Logger.Error("closing session store", err)
			}
			_ = p.ZapLogger.Sync()
		}()
		defer p.Logger.Info("Application stopped")

		// =========================================================================
		// Start Web Service

		signal.Notify(p.Shutdown, os.Interrupt, syscall.SIGTERM)
		serverErrors := make(chan error, 1)
		go func() {
			p.Logger.Info("web server listening", map[string]interface{}{"address": p.Conf.Server.Address})
			serverErrors <- p.Server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-serverErrors:
			if err != nil {
				p.Logger.Error(fmt.Sprintf("server error: %v", err), err)
			}
			return err

		case sig := <-p.Shutdown:
			p.Logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), p.Conf.Server.ShutdownTimeout)
			defer cancel()

			if err := p.Server.Stop(ctx); err != nil {
				p.Logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
				return err
			}
		}
		return nil
	})
}

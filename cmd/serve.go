package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JhonesBR/go-ledger/internal/api"
	"github.com/gofiber/fiber/v3"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the banking tools over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-addr host:port]

  Starts the HTTP server exposing the tools under /v1/tools and the
  account projections under /v1/accounts.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides server.host and server.port")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting server: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	app := api.NewApp(a.cfg.Server.Name, api.Services{
		Store:        a.store,
		Engine:       a.engine,
		Queries:      a.queries,
		Tools:        a.tools,
		HistoryLimit: a.cfg.Ledger.HistoryLimit,
		Log:          a.log.Named("http"),
	})

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			a.log.Warn("shutdown", zap.Error(err))
		}
	}()

	addr := c.addr
	if addr == "" {
		addr = a.cfg.Server.Addr()
	}
	a.log.Info("listening", zap.String("addr", addr), zap.String("version", a.cfg.Server.Version))
	if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		a.log.Error("server stopped", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

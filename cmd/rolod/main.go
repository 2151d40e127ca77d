package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/five82/rolo/internal/logging"
	"github.com/five82/rolo/internal/server"
)

// Options for the CLI. Pass `--port` or set the `SERVICE_PORT` env var.
type Options struct {
	Host      string `short:"H" doc:"host to listen on"                                  default:""`
	Port      int    `short:"p" doc:"port to listen on"                                  default:"5000"`
	DB        string `doc:"SQLite database path, empty keeps contacts in memory"         default:""`
	Seed      bool   `doc:"insert a sample contact when the store is empty"              default:"false"`
	LogLevel  string `doc:"log from debug, info, warn or error"                          default:"info"`
	LogFile   string `doc:"append logs to file"                                          default:""`
	LogFormat string `doc:"format logs as text or json"                                  default:"text"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger, logCloser := logging.New(logging.Options{
			Level:  options.LogLevel,
			File:   options.LogFile,
			Format: options.LogFormat,
		}, os.Stderr)

		var srv *http.Server

		hooks.OnStart(func() {
			defer func() { _ = logCloser.Close() }()

			store, closer, err := server.OpenStore(context.Background(), &server.StoreOptions{
				DB:   options.DB,
				Seed: options.Seed,
			})
			if err != nil {
				logger.Error("failed to open store", "err", err)
				return
			}
			defer func() { _ = closer.Close() }()

			srv = server.NewServer(&server.ServerOptions{
				Host: options.Host,
				Port: options.Port,
			}, server.NewHandler(store, logger), logger)

			logger.Info("listening", "addr", srv.Addr, "db", options.DB)
			err = srv.ListenAndServe()
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to listen and serve", "err", err)
			} else {
				logger.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			if srv == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("could not shutdown the server", "err", err)
			}
		})
	})
	cli.Run()
}

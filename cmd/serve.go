package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/clickwheel/internal/server"
	"github.com/desertthunder/clickwheel/internal/shared"
	"github.com/urfave/cli/v3"
)

// handler builds the API router over the loaded catalog and artwork cache.
func (r *Runner) handler() (http.Handler, error) {
	resolver, err := r.resolver("remote", false)
	if err != nil {
		return nil, err
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	router := server.NewBasicRouter()
	router.Use(server.Recoverer(logger), server.RequestLogger(logger), server.CORS(r.config.Server.AllowedOrigins))
	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(server.Health))
	router.Handler(server.NewAPI(server.APIOpts{
		Catalog:  r.catalog,
		Resolver: resolver,
		Logger:   logger,
	}))
	return router, nil
}

// Serve runs the JSON catalog API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr
	}

	h, err := r.handler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(addr, h, shared.WithLogger(r.logger, "component", "server")).ListenAndServe(ctx)
}

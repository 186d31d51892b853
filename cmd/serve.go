package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mvx/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON surface until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	sess, err := r.session()
	if err != nil {
		return err
	}

	handler := server.NewHandler(cfg, server.Deps{
		Service: r.movieService(),
		Session: sess,
		Logger:  r.logger,
	})

	srv := server.New(cfg.Addr(), handler, r.logger)
	ready := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx, ready) }()

	select {
	case addr := <-ready:
		r.writePlain("Listening on http://%s (ctrl+c to stop)\n", addr)
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

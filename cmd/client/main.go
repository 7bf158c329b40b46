package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marinesurvey/inspector/internal/client/cli"
	"github.com/marinesurvey/inspector/internal/client/client"
	"github.com/marinesurvey/inspector/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout), os.Stdin, os.Stdout)

	args := cli.Positional(os.Args[1:], config.FlagsWithValue)
	if err := app.Run(ctx, args); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintln(os.Stderr, "error:", apiErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}

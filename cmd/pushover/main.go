package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kursadbilgin/pushover/internal/config"
	"github.com/kursadbilgin/pushover/internal/observability"
	"github.com/kursadbilgin/pushover/pkg/pushover"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "pushover",
		Usage: "Send Pushover notifications or run an HTTP relay for them",
		Commands: []*cli.Command{
			sendCommand(),
			relayCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type services struct {
	cfg    *config.Config
	logger *zap.Logger
}

func setup() (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &services{cfg: cfg, logger: logger}, nil
}

func (r *services) newClient(device string, observer pushover.Observer) (*pushover.Client, error) {
	opts := []pushover.Option{
		pushover.WithEndpoint(r.cfg.PushoverAPIURL),
		pushover.WithTimeout(r.cfg.RequestTimeout()),
		pushover.WithLogger(r.logger.Named("client")),
	}
	if observer != nil {
		opts = append(opts, pushover.WithObserver(observer))
	}

	return pushover.New(pushover.Credentials{
		Token:   r.cfg.PushoverToken,
		UserKey: r.cfg.PushoverUserKey,
		Device:  device,
	}, opts...)
}

package main

import (
	"fmt"

	"github.com/kursadbilgin/pushover/pkg/pushover"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:    "send",
		Aliases: []string{"s"},
		Usage:   "Send a single message",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "message body", Required: true},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "message title"},
			&cli.StringFlag{Name: "url", Usage: "supplementary URL"},
			&cli.StringFlag{Name: "url-title", Usage: "label for --url"},
			&cli.Int64Flag{Name: "timestamp", Usage: "unix timestamp shown instead of the receive time"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "lowest, low, normal, high, emergency or -2..2"},
			&cli.StringFlag{Name: "sound", Usage: "notification sound name"},
			&cli.BoolFlag{Name: "html", Usage: "render the message as HTML"},
			&cli.IntFlag{Name: "ttl", Usage: "seconds before the message is deleted from devices"},
			&cli.IntFlag{Name: "retry", Usage: "emergency retry interval in seconds"},
			&cli.IntFlag{Name: "expire", Usage: "emergency expiry in seconds"},
			&cli.StringFlag{Name: "device", Aliases: []string{"d"}, Usage: "deliver to this device only (overrides PUSHOVER_DEVICE)"},
		},
		Action: runSend,
	}
}

func runSend(cCtx *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	opts, err := optionsFromFlags(cCtx)
	if err != nil {
		return err
	}

	device := rt.cfg.PushoverDevice
	if cCtx.IsSet("device") {
		device = cCtx.String("device")
	}

	client, err := rt.newClient(device, nil)
	if err != nil {
		return err
	}

	result, err := client.SendMessage(cCtx.Context, cCtx.String("message"), opts)
	if err != nil {
		rt.logger.Error("message send failed", zap.Error(err), zap.Bool("transient", pushover.IsTransient(err)))
		return err
	}
	if !result.OK() {
		rt.logger.Error("message not accepted",
			zap.Int("status", result.Status),
			zap.String("request", result.Request),
			zap.Strings("errors", result.Errors),
		)
		return fmt.Errorf("pushover returned status %d (request %s)", result.Status, result.Request)
	}

	rt.logger.Info("message sent", zap.String("request", result.Request))
	fmt.Fprintln(cCtx.App.Writer, result.Request)
	return nil
}

func optionsFromFlags(cCtx *cli.Context) (pushover.Options, error) {
	opts := pushover.Options{
		Title:    cCtx.String("title"),
		URL:      cCtx.String("url"),
		URLTitle: cCtx.String("url-title"),
		Sound:    cCtx.String("sound"),
		HTML:     cCtx.Bool("html"),
	}

	if cCtx.IsSet("timestamp") {
		opts.Timestamp = pushover.Ptr(cCtx.Int64("timestamp"))
	}
	if cCtx.IsSet("priority") {
		priority, err := pushover.ParsePriority(cCtx.String("priority"))
		if err != nil {
			return pushover.Options{}, err
		}
		opts.Priority = &priority
	}
	if cCtx.IsSet("ttl") {
		opts.TTL = pushover.Ptr(cCtx.Int("ttl"))
	}
	if cCtx.IsSet("retry") {
		opts.Retry = pushover.Ptr(cCtx.Int("retry"))
	}
	if cCtx.IsSet("expire") {
		opts.Expire = pushover.Ptr(cCtx.Int("expire"))
	}

	return opts, nil
}

//go:build !tinygo

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"cartreader/app"
	"cartreader/hal"
	"cartreader/internal/buildinfo"
	"cartreader/internal/config"
	"cartreader/internal/logging"
	"cartreader/internal/storage"
	"cartreader/ui"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "cartreader"
	cliApp.Usage = "cartridge reader firmware on the desktop"
	cliApp.Version = buildinfo.String()
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML configuration file",
		},
		cli.StringFlag{
			Name:  "ui",
			Usage: "user interface: oled, serial or test",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "run without a window; buttons replay --script",
		},
		cli.DurationFlag{
			Name:  "duration",
			Usage: "stop a headless run after this long (0 = run until the firmware returns)",
		},
		cli.BoolFlag{
			Name:  "dump-frame",
			Usage: "log the last frame as text when a headless run stops",
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "primary button timeline, e.g. press@100ms,release@180ms",
		},
		cli.StringFlag{
			Name:  "script2",
			Usage: "secondary button timeline",
		},
		cli.StringFlag{
			Name:  "port",
			Usage: "serial device for the serial ui (default stdin/stdout)",
		},
		cli.IntFlag{
			Name:  "baud",
			Usage: "serial baud rate",
		},
		cli.StringFlag{
			Name:  "db",
			Usage: "bbolt file holding the folder counter (default: emulated flash)",
		},
		cli.StringFlag{
			Name:  "flash",
			Usage: "emulated flash image",
		},
		cli.StringFlag{
			Name:  "log",
			Usage: "rotating log file",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "debug logging",
		},
	}
	cliApp.Action = run

	if err := cliApp.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("cartreader")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer := logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	defer closer.Close()
	log.Logger = logger
	logger.Info().Str("version", buildinfo.String()).Str("ui", cfg.UI).Msg("cartreader: starting")

	var db *storage.Bolt
	if cfg.Storage.Path != "" {
		db, err = storage.OpenBolt(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	firmware := func(h hal.HAL) error {
		folders, err := folderStore(h, db, logger)
		if err != nil {
			return err
		}
		return app.Run(h, app.Options{
			Config:       cfg,
			Log:          logger,
			Folders:      folders,
			ReturnOnHalt: true,
		})
	}

	hcfg := hal.HostConfig{
		Width:           cfg.Display.Width,
		Height:          cfg.Display.Height,
		SerialPort:      cfg.Serial.Port,
		Baud:            cfg.Serial.Baud,
		FlashPath:       cfg.Storage.FlashPath,
		ActiveLow:       cfg.Buttons.ActiveLow,
		Secondary:       cfg.Buttons.Secondary,
		Script:          c.String("script"),
		SecondaryScript: c.String("script2"),
	}

	if c.Bool("headless") {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, hcfg, hal.HeadlessConfig{
			Enabled:   true,
			Duration:  c.Duration("duration"),
			DumpFrame: c.Bool("dump-frame"),
		}, firmware)
		if errors.Is(err, context.Canceled) {
			return nil
		}
	} else {
		err = hal.RunWindow(hcfg, firmware)
	}
	if errors.Is(err, app.ErrHalted) {
		logger.Info().Msg("cartreader: halted")
		return nil
	}
	return err
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if s := c.String("ui"); s != "" {
		cfg.UI = s
	}
	if s := c.String("port"); s != "" {
		cfg.Serial.Port = s
	}
	if n := c.Int("baud"); n > 0 {
		cfg.Serial.Baud = n
	}
	if s := c.String("db"); s != "" {
		cfg.Storage.Path = s
	}
	if s := c.String("flash"); s != "" {
		cfg.Storage.FlashPath = s
	}
	if s := c.String("log"); s != "" {
		cfg.Log.File = s
	}
	if c.Bool("verbose") {
		cfg.Log.Level = zerolog.LevelDebugValue
	}
}

// folderStore prefers the bbolt file and falls back to the board flash.
func folderStore(h hal.HAL, db *storage.Bolt, logger zerolog.Logger) (ui.FolderStore, error) {
	if db != nil {
		return db, nil
	}
	if f := h.Flash(); f != nil {
		store, err := storage.NewFlash(f)
		if err == nil {
			return store, nil
		}
		logger.Warn().Err(err).Msg("cartreader: flash unusable")
	}
	logger.Warn().Msg("cartreader: folder counter kept in memory")
	return storage.NewMemory(0), nil
}

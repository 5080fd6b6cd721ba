package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/mrdg/piano/audio"
	"github.com/mrdg/piano/config"
	"github.com/spf13/pflag"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "", log.Ldate|log.Ltime)

	var (
		configPath = pflag.StringP("config", "c", "piano.json", "config file, written with defaults if missing")
		driver     = pflag.StringP("driver", "d", "", "output driver: portaudio, oto or null")
		samples    = pflag.StringP("samples", "s", "", "directory searched for samples before the default locations")
		block      = pflag.IntP("block", "b", 0, "frames per mix tick")
		maxVoices  = pflag.Int("max-voices", -1, "voice limit, 0 for unbounded")
		keys       = pflag.BoolP("keys", "k", false, "play from the keyboard instead of the command line")
		debug      = pflag.Bool("debug", false, "dump config and library details and log every retired voice")
	)
	pflag.Parse()

	cfg, err := config.ReadConfig(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if pflag.CommandLine.Changed("driver") {
		cfg.Driver = *driver
	}
	if pflag.CommandLine.Changed("block") {
		cfg.BlockFrames = *block
	}
	if pflag.CommandLine.Changed("max-voices") {
		cfg.MaxVoices = *maxVoices
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *debug {
		spew.Fdump(os.Stderr, cfg)
	}

	notes, err := cfg.Notes()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	exe, err := os.Executable()
	if err != nil {
		logger.Fatalf("failed to locate executable: %v", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		logger.Fatalf("failed to get current working directory: %v", err)
	}
	resolver := &audio.Resolver{
		Prefix: cfg.SamplePrefix,
		Ext:    cfg.SampleExt,
		Dirs:   audio.SearchDirs(*samples, filepath.Dir(exe), cwd, cfg.SampleDir),
	}
	lib := audio.LoadLibrary(notes, resolver, logger)
	if *debug {
		spew.Fdump(os.Stderr, resolver.Dirs, lib.Missing())
	}

	format, derived := lib.Format()
	if !derived {
		format = cfg.Format()
	}
	out, driverErr := audio.Open(cfg.Driver, format, cfg.BlockFrames, logger)
	if driverErr == nil {
		format = out.Format()
	}

	eviction, err := audio.ParseEvictionPolicy(cfg.Eviction)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	engine := audio.NewEngine(lib, format, audio.Options{
		MaxVoices: cfg.MaxVoices,
		Eviction:  eviction,
		Logger:    logger,
		Debug:     *debug,
	})

	if driverErr == nil {
		driverErr = out.Start(engine)
	}
	if driverErr != nil {
		engine.Deactivate(fmt.Errorf("driver %s: %w", cfg.Driver, driverErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go engine.Run(ctx)
	if cfg.WatchConfig {
		watchConfig(ctx, *configPath, engine)
	}

	env := &env{piano: engine, lib: lib, notes: notes}
	err = runUI(out, func() error {
		if *keys {
			return playKeys(ctx, env, os.Stdin, os.Stdout)
		}
		return repl(env)
	})
	if err != nil {
		logger.Printf("%v", err)
		stop()
		os.Exit(1)
	}
}

// runUI runs the front end and then closes the output driver, if one was opened, so
// the stream is stopped before the process exits.
func runUI(out io.Closer, ui func() error) error {
	if out != nil {
		defer out.Close()
	}
	return ui()
}

// watchConfig applies changes to the dynamic part of the config file to the running
// engine.
func watchConfig(ctx context.Context, path string, dev audio.Device) {
	configs := make(chan *config.Config)
	errs := make(chan error)
	if err := config.Watch(ctx, path, configs, errs); err != nil {
		logger.Printf("config: %v", err)
		return
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case c := <-configs:
				if err := c.DynamicConfig.Apply(dev); err != nil {
					logger.Printf("config: %v", err)
					continue
				}
				logger.Printf("config: applied maxVoices=%d eviction=%s", c.MaxVoices, c.Eviction)
			case err := <-errs:
				logger.Printf("config: %v", err)
			}
		}
	}()
}

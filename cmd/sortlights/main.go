package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/guidoenr/sortlights/internal/app"
	"github.com/guidoenr/sortlights/internal/audio"
	"github.com/guidoenr/sortlights/internal/config"
	"github.com/guidoenr/sortlights/internal/input"
	"github.com/guidoenr/sortlights/internal/metrics"
	"github.com/guidoenr/sortlights/internal/params"
	"github.com/guidoenr/sortlights/internal/render"
	"github.com/guidoenr/sortlights/internal/sorting"
	"github.com/guidoenr/sortlights/internal/web"
)

var version = "dev"

const defaultListen = "localhost:8080"

type options struct {
	configPath  string
	driver      string
	listen      string
	sound       bool
	audioDevice string
	leds        int
	delay       float64
	brightness  float64
	algorithm   string
	colorOrder  string
	seed        int64
	cycles      int
	profile     string
	debug       bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "sortlights",
		Short: "Animate sorting algorithms on an LED strip",
		Long: `sortlights shuffles a strip of hues and sorts it again, one visible
step at a time, cycling through twelve algorithms.

Keys: + f b faster, - s a slower, n space u next algorithm, q Esc quit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default .sortlights.yaml in . or $HOME)")
	flags.BoolVar(&opts.debug, "debug", false, "Enable verbose logging")

	runFlags := rootCmd.Flags()
	runFlags.StringVar(&opts.driver, "driver", config.DefaultDriver,
		fmt.Sprintf("Strip driver (%s)", strings.Join(render.DriverNames(), "|")))
	runFlags.StringVar(&opts.listen, "listen", "", "Serve the web control page on this address")
	runFlags.BoolVar(&opts.sound, "sound", false, "Play a tone for every highlighted step")
	runFlags.StringVar(&opts.audioDevice, "audio-device", "", "PortAudio output device name (substring match)")
	runFlags.IntVar(&opts.leds, "leds", config.DefaultLEDCount, "Number of LEDs on the strip")
	runFlags.Float64Var(&opts.delay, "delay", params.DefaultDelay, "Initial step delay in seconds")
	runFlags.Float64Var(&opts.brightness, "brightness", params.DefaultBrightness, "LED brightness in [0,1]")
	runFlags.StringVar(&opts.algorithm, "algorithm", config.DefaultAlgorithm, "First algorithm to run")
	runFlags.StringVar(&opts.colorOrder, "color-order", config.DefaultColorOrder, "Strip byte order (RGB|RBG|GRB|GBR|BRG|BGR)")
	runFlags.Int64Var(&opts.seed, "seed", 0, "Shuffle seed, 0 for time based")
	runFlags.IntVar(&opts.cycles, "cycles", 0, "Stop after this many cycles, 0 runs forever")
	runFlags.StringVar(&opts.profile, "profile", "", "Append per-phase cycle timings to this CSV file")

	rootCmd.AddCommand(algorithmsCmd())
	rootCmd.AddCommand(configCmd(opts))
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func run(cmd *cobra.Command, opts *options) error {
	logger := log.New(os.Stderr, "[sortlights] ", log.LstdFlags)
	if !opts.debug {
		logger.SetFlags(0)
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if cfg.FileUsed == "" {
		logger.Println("no config file found, using default values")
	} else {
		logger.Printf("using config file %s", cfg.FileUsed)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt := params.NewRuntime(cfg.StepDelay, cfg.Brightness, int(cfg.Kind()), sorting.Count)
	recorder := metrics.New()
	events := make(chan input.Event, 16)

	listen := cfg.Listen
	if cfg.Driver == "web" && listen == "" {
		listen = defaultListen
	}
	var server *web.Server
	if listen != "" {
		server = web.NewServer(web.Config{
			Addr:       listen,
			LEDCount:   cfg.LEDCount,
			ColorOrder: cfg.Order(),
			Events:     events,
			Status:     statusFunc(rt),
			Metrics:    recorder.Handler(),
			Log:        logger,
		})
	}

	var driver render.Driver
	if cfg.Driver == "web" {
		driver = server
	} else {
		driver, err = render.Open(cfg.Driver, cfg.LEDCount, os.Stdout)
		if err != nil {
			return err
		}
	}
	if t, ok := driver.(*render.Terminal); ok && !opts.debug {
		logger.SetOutput(t)
	}

	appConfig := app.Config{
		Runtime:      rt,
		Driver:       driver,
		LEDCount:     cfg.LEDCount,
		Rand:         rand.New(rand.NewSource(seed(cfg.Seed))),
		Events:       events,
		Keyboard:     term.IsTerminal(int(os.Stdin.Fd())),
		Metrics:      recorder,
		ShufflePause: app.DefaultShufflePause,
		SettlePause:  app.DefaultSettlePause,
		Cycles:       opts.cycles,
		ProfilePath:  opts.profile,
		Log:          logger,
	}
	if server != nil {
		appConfig.Server = server
	}

	if cfg.Sound {
		if err := audio.Initialize(); err != nil {
			logger.Printf("sound disabled: %v", err)
		} else {
			defer audio.Terminate()
			voice, err := audio.NewVoice(audio.Config{DeviceName: cfg.AudioDevice})
			if err != nil {
				logger.Printf("sound disabled: %v", err)
			} else {
				appConfig.Tone = voice
			}
		}
	}

	a, err := app.New(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}()

	if err := a.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nExiting...")
			return nil
		}
		return fmt.Errorf("runtime error: %w", err)
	}
	return nil
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = opts.driver
	}
	if flags.Changed("listen") {
		cfg.Listen = opts.listen
	}
	if flags.Changed("sound") {
		cfg.Sound = opts.sound
	}
	if flags.Changed("audio-device") {
		cfg.AudioDevice = opts.audioDevice
	}
	if flags.Changed("leds") {
		cfg.LEDCount = opts.leds
	}
	if flags.Changed("delay") {
		cfg.StepDelay = opts.delay
	}
	if flags.Changed("brightness") {
		cfg.Brightness = opts.brightness
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm = opts.algorithm
	}
	if flags.Changed("color-order") {
		cfg.ColorOrder = opts.colorOrder
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func statusFunc(rt *params.Runtime) func() web.Status {
	return func() web.Status {
		k := sorting.Kind(rt.Algorithm())
		return web.Status{
			Algorithm: k.String(),
			Day:       k.Day(),
			Delay:     rt.DelaySeconds(),
		}
	}
}

func seed(s int64) int64 {
	if s != 0 {
		return s
	}
	return time.Now().UnixNano()
}

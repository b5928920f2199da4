package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jtsunne/opsdash/internal/chart"
	"github.com/jtsunne/opsdash/internal/config"
	"github.com/jtsunne/opsdash/internal/observability"
	"github.com/jtsunne/opsdash/internal/server"
	"github.com/jtsunne/opsdash/internal/settings"
	"github.com/jtsunne/opsdash/internal/sim"
	"github.com/jtsunne/opsdash/internal/tui"
)

// options are the command-line overrides on top of the config file.
type options struct {
	configPath string
	interval   time.Duration
	listen     string
	noHTTP     bool
	headless   bool
	backend    string
	redisAddr  string
	logFile    string
}

// parseFlags parses args (without the program name).
func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("opsdash", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	fs.DurationVar(&opts.interval, "interval", 0, "tick interval override (e.g. 1s, 500ms)")
	fs.StringVar(&opts.listen, "listen", "", "HTTP listen address override (e.g. 127.0.0.1:8080)")
	fs.BoolVar(&opts.noHTTP, "no-http", false, "do not start the HTTP/WebSocket server")
	fs.BoolVar(&opts.headless, "headless", false, "run without the terminal UI")
	fs.StringVar(&opts.backend, "settings", "", "settings backend override: file or redis")
	fs.StringVar(&opts.redisAddr, "redis", "", "redis address for the redis settings backend")
	fs.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: opsdash [flags]\n\n")
		fmt.Fprintf(stderr, "examples:\n")
		fmt.Fprintf(stderr, "  opsdash\n")
		fmt.Fprintf(stderr, "  opsdash --config opsdash.yaml --interval 1s\n")
		fmt.Fprintf(stderr, "  opsdash --headless --listen :8080\n")
		fmt.Fprintf(stderr, "  opsdash --settings redis --redis localhost:6379\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if opts.interval < 0 {
		return options{}, errors.New("--interval must be positive")
	}
	if opts.redisAddr != "" && opts.backend == "" {
		opts.backend = config.BackendRedis
	}
	return opts, nil
}

// buildConfig loads the config file and applies the flag overrides.
func buildConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.interval > 0 {
		cfg.TickInterval = opts.interval
	}
	if opts.listen != "" {
		cfg.Listen = opts.listen
	}
	if opts.noHTTP {
		cfg.Listen = ""
	}
	if opts.backend != "" {
		cfg.Settings.Backend = opts.backend
	}
	if opts.redisAddr != "" {
		cfg.Settings.RedisAddr = opts.redisAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the configured settings backend. The returned func
// releases it.
func openStore(ctx context.Context, cfg config.SettingsConfig) (settings.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		st, err := settings.NewRedisStore(ctx, cfg.RedisAddr, cfg.Key)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return settings.NewFileStore(cfg.Path), func() {}, nil
	}
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg.Settings)
	if err != nil {
		return err
	}
	defer closeStore()

	prefs, err := settings.LoadOrDefault(ctx, store)
	if err != nil {
		logger.Warn("settings unavailable, using defaults", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	promSink := observability.NewPromSink(reg)
	hub := server.NewHub(logger)
	chartOpts := []chart.Option{chart.WithPadding(cfg.Chart.Padding), chart.WithRows(cfg.Chart.GridRows)}

	clockOpts := []sim.Option{sim.WithSink(hub), sim.WithSink(promSink), sim.WithLogger(logger)}

	var (
		ctrl    server.Controller
		theme   chart.ThemeSource
		program *tea.Program
		clock   *sim.Clock
	)
	if opts.headless {
		clock = sim.NewClock(cfg.Clock(), clockOpts...)
		ctrl = server.ClockController{Clock: clock}
		theme = chart.NewLiveTheme(prefs.Accent)
	} else {
		sched := tui.NewScheduler()
		clock = sim.NewClock(cfg.Clock(), append(clockOpts, sim.WithScheduler(sched))...)
		app := tui.NewApp(clock, sched,
			tui.WithStore(store),
			tui.WithSettings(prefs),
			tui.WithChartOptions(chartOpts...),
			tui.WithLogger(logger),
		)
		program = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
		ctrl = tui.ProgramController{Clock: clock, Program: program}
		theme = app.Theme()
	}
	defer clock.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if cfg.Listen != "" {
		srv := server.New(ctrl, hub,
			server.WithTheme(theme),
			server.WithChartOptions(chartOpts...),
			server.WithGatherer(reg),
			server.WithLogger(logger),
		)
		g.Go(func() error {
			return srv.ListenAndServe(gctx, cfg.Listen)
		})
	}

	if program != nil {
		g.Go(func() error {
			_, err := program.Run()
			// leaving the UI ends the whole process
			cancel()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		})
	} else {
		if err := clock.Start(); err != nil {
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			clock.Stop()
			return nil
		})
	}

	return g.Wait()
}

// setupLogging returns the process logger. Headless mode logs to stderr
// unless --log-file is set. The terminal UI owns the screen, so without a log
// file its logs are discarded.
func setupLogging(opts options) (*zap.Logger, error) {
	if !opts.headless && opts.logFile == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if opts.logFile != "" {
		cfg.OutputPaths = []string{opts.logFile}
		cfg.ErrorOutputPaths = []string{opts.logFile}
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if !opts.headless && (!term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "not a terminal; running headless")
		opts.headless = true
	}

	logger, err := setupLogging(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

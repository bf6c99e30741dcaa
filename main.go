package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/esimov/ascii-seasons/detector"
	"github.com/esimov/ascii-seasons/http"
	particle "github.com/esimov/ascii-seasons/particle-system"
	"github.com/esimov/ascii-seasons/report"
	"github.com/esimov/ascii-seasons/terminal"
	"github.com/esimov/ascii-seasons/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	effect  string
	profile string
	backend string
	addr    string
	root    string
	fps     int
	ticks   int
	report  string
	cascade string

	logLevel   string
	logFile    string
	showCaller bool
}

func main() {
	var o options
	flag.StringVar(&o.effect, "e", "fire", fmt.Sprintf("effect preset: %v", particle.PresetNames()))
	flag.StringVar(&o.profile, "p", "", "yaml profile file, overrides -e")
	flag.StringVar(&o.backend, "b", "termbox", "backend: termbox, tcell, web or report")
	flag.StringVar(&o.addr, "a", "localhost:5000", "web backend listen address")
	flag.StringVar(&o.root, "root", "", "serve the browser client from this directory instead of the embedded one")
	flag.IntVar(&o.fps, "fps", 60, "frames per second")
	flag.IntVar(&o.ticks, "ticks", 0, "stop after this many ticks, 0 runs until interrupted")
	flag.StringVar(&o.report, "r", "report.html", "report backend output file")
	flag.StringVar(&o.cascade, "cascade", "", "pigo facefinder cascade enabling camera impulses in the web backend")
	flag.StringVar(&o.logLevel, "d", "warn", "output level: debug, info, warn, error")
	flag.StringVar(&o.logFile, "o", "", "log file; terminal backends default to ascii-seasons.log")
	flag.BoolVar(&o.showCaller, "c", false, "log the caller")
	flag.Parse()

	log, err := initLogs(o)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, log); err != nil {
		log.Errorw("exiting", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func initLogs(o options) (*zap.SugaredLogger, error) {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	switch o.logLevel {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", o.logLevel)
	}
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.StacktraceKey = ""
	if !o.showCaller {
		config.EncoderConfig.CallerKey = ""
	}

	// The terminal backends own the screen, so their logs go to a file.
	logFile := o.logFile
	if logFile == "" && (o.backend == "termbox" || o.backend == "tcell") {
		logFile = "ascii-seasons.log"
	}
	if logFile != "" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.OutputPaths = []string{logFile}
		config.ErrorOutputPaths = []string{logFile}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger.Sugar(), nil
}

func loadProfile(o options) (particle.Profile, error) {
	if o.profile != "" {
		return particle.LoadProfile(o.profile)
	}
	return particle.Preset(o.effect)
}

func run(ctx context.Context, o options, log *zap.SugaredLogger) error {
	profile, err := loadProfile(o)
	if err != nil {
		return err
	}
	log.Infow("effect loaded", "label", profile.Label, "species", len(profile.Species))

	switch o.backend {
	case "termbox", "tcell":
		return runTerminal(ctx, o, profile, log)
	case "web":
		return runWeb(ctx, o, profile, log)
	case "report":
		return runReport(o, profile, log)
	}
	return fmt.Errorf("unknown backend %q", o.backend)
}

func newDriver(o options, profile particle.Profile, log *zap.SugaredLogger) *particle.Driver {
	return particle.NewDriver(particle.NewTickerScheduler(o.fps),
		particle.WithLogger(log),
		particle.WithImpulse(profile.NewImpulse()),
	)
}

// limitTicks cancels the run once the driver has stepped o.ticks times.
func limitTicks(ctx context.Context, o options, d *particle.Driver) context.Context {
	if o.ticks <= 0 {
		return ctx
	}
	ctx, cancel := context.WithCancel(ctx)
	d.OnFrame(func(f particle.Frame) {
		if f.Tick >= uint64(o.ticks) {
			cancel()
		}
	})
	return ctx
}

func runTerminal(ctx context.Context, o options, profile particle.Profile, log *zap.SugaredLogger) error {
	screen, err := terminal.NewScreen(o.backend)
	if err != nil {
		return err
	}
	term := terminal.New(screen, profile, log)
	bounds, err := term.Open()
	if err != nil {
		return err
	}
	pools, err := profile.Pools(bounds, nil)
	if err != nil {
		screen.Close()
		return err
	}

	d := newDriver(o, profile, log)
	d.Register(pools...)
	return term.Run(limitTicks(ctx, o, d), d)
}

func runWeb(ctx context.Context, o options, profile particle.Profile, log *zap.SugaredLogger) error {
	// The first browser reports its real size through a resize message.
	bounds := particle.Bounds{Width: 1280, Height: 720}
	pools, err := profile.Pools(bounds, nil)
	if err != nil {
		return err
	}
	d := newDriver(o, profile, log)
	d.Register(pools...)

	var faces websocket.FaceDetector
	if o.cascade != "" {
		det, err := detector.Load(o.cascade)
		if err != nil {
			return err
		}
		faces = det
		log.Infow("camera impulses enabled", "cascade", o.cascade)
	}
	srv := websocket.NewServer(profile, bounds, d, faces, log)
	d.OnFrame(srv.Broadcast)

	ctx, cancel := context.WithCancel(limitTicks(ctx, o, d))
	defer cancel()
	go srv.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		p := http.DefaultParams()
		p.Address = o.addr
		p.Root = o.root
		errc <- http.InitServer(ctx, p, srv, log)
		cancel()
	}()

	d.Run(ctx)
	return <-errc
}

func runReport(o options, profile particle.Profile, log *zap.SugaredLogger) error {
	ticks := o.ticks
	if ticks <= 0 {
		ticks = 10 * o.fps
	}
	rec, err := report.Run(profile, report.Options{
		Bounds:  particle.Bounds{Width: 1280, Height: 720},
		Ticks:   ticks,
		FPS:     o.fps,
		ClickAt: ticks / 2,
		Log:     log,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(o.report)
	if err != nil {
		return err
	}
	defer f.Close()

	title := profile.Label
	if title == "" {
		title = o.effect
	}
	if err := rec.Render(f, title); err != nil {
		return err
	}
	log.Infow("report written", "file", o.report, "ticks", ticks)
	return nil
}

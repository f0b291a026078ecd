package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-retroclock/internal/api"
	"github.com/coreman2200/funtimes-retroclock/internal/app"
	"github.com/coreman2200/funtimes-retroclock/internal/config"
	diag "github.com/coreman2200/funtimes-retroclock/internal/diagnostics"
	"github.com/coreman2200/funtimes-retroclock/internal/framebuffer"
	"github.com/coreman2200/funtimes-retroclock/internal/layout"
	"github.com/coreman2200/funtimes-retroclock/internal/mirror"
	"github.com/coreman2200/funtimes-retroclock/internal/surface"
	"github.com/coreman2200/funtimes-retroclock/internal/timesource"
)

func main() {
	// ---- Flags (explicit flags override config.yaml) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", surface.DriverSim, "surface: sim | term | oled | strip")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		width      = flag.Int("width", 320, "simulated display width (px)")
		height     = flag.Int("height", 240, "simulated display height (px)")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		systemTime = flag.Bool("system-time", false, "use the host clock instead of NTP")
		debug      = flag.Bool("debug", false, "debug logging")
		logPath    = flag.String("log", "", "log file (default stdout; discarded with -driver term)")
	)
	flag.Parse()

	// ---- Load config.yaml (optional) ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	// flags given on the command line win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Surface.Driver = *driver
		case "addr":
			cfg.HTTP.Addr = *addr
		case "width":
			cfg.Surface.Width = *width
		case "height":
			cfg.Surface.Height = *height
		}
	})
	if *simOnly {
		cfg.Surface.Driver = surface.DriverSim
	}

	// ---- Logging ----
	var out io.Writer = os.Stdout
	switch {
	case *logPath != "":
		f, ferr := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if ferr == nil {
			defer f.Close()
			out = f
		}
	case cfg.Surface.Driver == surface.DriverTerm:
		out = io.Discard
	}
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	}

	diags := diag.NewLog(0)

	// ---- Surface selection; every hardware failure falls back to sim ----
	surf, closeBus := openSurface(cfg, diags)
	defer func() {
		_ = surf.Close()
		if closeBus != nil {
			_ = closeBus()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if t, ok := surf.(*surface.Terminal); ok {
		go func() {
			select {
			case <-t.Quit():
				stop()
			case <-ctx.Done():
			}
		}()
	}

	// ---- Time source ----
	loc, zerr := timesource.LoadZone(cfg.TZ)
	if zerr != nil {
		log.Warn().Err(zerr).Msg("time zone; using UTC")
	}
	var src timesource.Source
	if *systemTime {
		src = timesource.NewSystem(loc)
	} else {
		n := timesource.NewNTP(cfg.NTP, loc)
		go n.Run(ctx)
		src = n
	}

	// ---- Core ----
	hub := mirror.NewHub()
	core, err := app.New(app.Options{Config: cfg, Surface: surf, Source: src, Diag: diags, Hub: hub})
	if err != nil {
		log.Fatal().Err(err).Msg("core init failed")
	}

	if cfg.Mirror.SerialPort != "" {
		sink, err := mirror.OpenSerial(cfg.Mirror.SerialPort, cfg.Mirror.Baud)
		if err != nil {
			log.Warn().Err(err).Msg("serial mirror disabled")
		} else {
			go sink.Run(ctx, hub)
		}
	}

	// ---- HTTP ----
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.New(core, *configPath).Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("surface", surf.Name()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	// ---- Run until signalled ----
	if err := core.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("render loop stopped")
	}
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(sctx)
}

// openSurface returns the configured surface and, for bus-attached panels,
// a func that releases the bus.
func openSurface(cfg *config.Config, diags *diag.Log) (surface.Surface, func() error) {
	sc := cfg.Surface
	fallback := func(err error) (surface.Surface, func() error) {
		log.Warn().Err(err).Str("driver", sc.Driver).Msg("surface init failed; falling back to SIM")
		diags.Push(diag.Diagnostic{
			Severity: diag.Warn, Code: diag.SurfaceFallback, Summary: "Display unavailable, simulating",
			Detail:   err.Error(),
			Evidence: map[string]any{"driver": sc.Driver},
		})
		return surface.NewMemory(max(sc.Width, framebuffer.MatrixW), max(sc.Height, framebuffer.MatrixH)), nil
	}

	switch sc.Driver {
	case surface.DriverSim, "":
		return surface.NewMemory(max(sc.Width, framebuffer.MatrixW), max(sc.Height, framebuffer.MatrixH)), nil

	case surface.DriverTerm:
		t, err := surface.NewTerminal()
		if err != nil {
			return fallback(err)
		}
		return t, nil

	case surface.DriverOLED:
		if _, err := host.Init(); err != nil {
			return fallback(err)
		}
		o, closeBus, err := surface.OpenOLED(sc.I2CBus, sc.Width, sc.Height)
		if err != nil {
			return fallback(err)
		}
		return o, closeBus

	case surface.DriverStrip:
		if _, err := host.Init(); err != nil {
			return fallback(err)
		}
		l := layout.Layout{
			Dim:   layout.Dim{X: framebuffer.MatrixW, Y: framebuffer.MatrixH},
			Order: layout.Serpentine{FlipEveryRow: sc.Serpentine, FlipVertical: sc.FlipY},
		}
		s, err := surface.OpenStrip(sc.SPIPort, l)
		if err != nil {
			return fallback(err)
		}
		s.Limit = surface.Limiter{BudgetMA: sc.BudgetMA, ChanMA: sc.ChanMA}
		return s, nil

	default:
		log.Warn().Str("driver", sc.Driver).Msg("unknown driver; using SIM")
		return surface.NewMemory(max(sc.Width, framebuffer.MatrixW), max(sc.Height, framebuffer.MatrixH)), nil
	}
}

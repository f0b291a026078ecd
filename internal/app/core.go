// Package app runs the clock: one loop that reads the time, advances the
// morphs, composes the frame and publishes it for the web surface.
package app

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-retroclock/internal/clock"
	"github.com/coreman2200/funtimes-retroclock/internal/config"
	diag "github.com/coreman2200/funtimes-retroclock/internal/diagnostics"
	"github.com/coreman2200/funtimes-retroclock/internal/dimmer"
	"github.com/coreman2200/funtimes-retroclock/internal/framebuffer"
	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
	"github.com/coreman2200/funtimes-retroclock/internal/ledcolor"
	"github.com/coreman2200/funtimes-retroclock/internal/mirror"
	"github.com/coreman2200/funtimes-retroclock/internal/morph"
	"github.com/coreman2200/funtimes-retroclock/internal/netinfo"
	"github.com/coreman2200/funtimes-retroclock/internal/render"
	"github.com/coreman2200/funtimes-retroclock/internal/selftest"
	"github.com/coreman2200/funtimes-retroclock/internal/surface"
	"github.com/coreman2200/funtimes-retroclock/internal/timesource"
)

// FrameInterval is the loop period at the default frame rate.
const FrameInterval = 33 * time.Millisecond

const (
	netProbeInterval = 5 * time.Second
	renderLogEvery   = time.Second
	pendingUpdates   = 4
)

// Options are the collaborators handed to New. Surface and Source are
// required; the rest default.
type Options struct {
	Config  *config.Config
	Surface surface.Surface
	Source  timesource.Source
	Diag    *diag.Log
	Hub     *mirror.Hub
	// Probe reports connectivity; nil uses netinfo.Probe.
	Probe func() (netinfo.Info, error)
}

// zoned is implemented by sources that follow the configured zone.
type zoned interface{ SetLocation(*time.Location) }

// served is implemented by sources that follow the configured NTP server.
type served interface{ SetServer(string) }

// Core owns the framebuffer, clock state and compositor. Everything except
// the published snapshot is touched only by the loop goroutine.
type Core struct {
	fb      *framebuffer.Buffer
	tracker *clock.Tracker
	face    *clock.Face
	comp    *render.Compositor
	surf    surface.Surface
	light   surface.Backlight
	src     timesource.Source
	diag    *diag.Log
	hub     *mirror.Hub
	probe   func() (netinfo.Info, error)

	cfg      *config.Config
	updates  chan *config.Config
	tests    chan selftest.Kind
	runner   *selftest.Runner
	schedule *dimmer.Schedule
	level    uint8
	levelAt  time.Time

	net      netinfo.Info
	netAt    time.Time
	timeOK   bool
	timeSeen bool

	frames  uint64
	logAt   time.Time
	logBase uint64
	fps     float64
	start   time.Time

	mu       sync.RWMutex
	snapshot []byte
	state    State
}

// New builds a Core and applies opts.Config (clamped) as the initial
// configuration.
func New(opts Options) (*Core, error) {
	if opts.Surface == nil || opts.Source == nil {
		return nil, fmt.Errorf("app: surface and time source are required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.Clone()
	cfg.Clamp()

	c := &Core{
		fb:       framebuffer.New(framebuffer.MatrixW, framebuffer.MatrixH),
		surf:     opts.Surface,
		src:      opts.Source,
		diag:     opts.Diag,
		hub:      opts.Hub,
		probe:    opts.Probe,
		updates:  make(chan *config.Config, pendingUpdates),
		tests:    make(chan selftest.Kind, 1),
		net:      netinfo.Offline,
		start:    time.Now(),
		snapshot: make([]byte, framebuffer.MatrixW*framebuffer.MatrixH),
	}
	if c.diag == nil {
		c.diag = diag.NewLog(0)
	}
	if c.hub == nil {
		c.hub = mirror.NewHub()
	}
	if c.probe == nil {
		c.probe = netinfo.Probe
	}
	c.light, _ = opts.Surface.(surface.Backlight)

	c.tracker = clock.NewTracker(morph.DefaultSteps, cfg.Use24h, cfg.Seconds)
	c.face = clock.NewFace(glyph.FontByName(cfg.Font), image.Pt(framebuffer.MatrixW, framebuffer.MatrixH), c.tracker, morph.Builtin(morph.DefaultSteps), cfg.Morph)
	c.comp = render.NewCompositor(c.surf, image.Pt(framebuffer.MatrixW, framebuffer.MatrixH), settingsOf(cfg))
	c.cfg = cfg
	c.applyZone(cfg, nil)
	c.applyDimmer(cfg)
	c.reportMode()
	c.publish()
	return c, nil
}

func settingsOf(cfg *config.Config) render.Settings {
	return render.Settings{
		StatusH:      cfg.StatusBarH,
		Diameter:     cfg.LEDDiameter,
		Gap:          cfg.LEDGap,
		Color:        ledcolor.NewColor(cfg.LEDColor),
		SpriteBudget: cfg.SpriteBudget,
	}
}

// Diag returns the diagnostics log.
func (c *Core) Diag() *diag.Log { return c.diag }

// Hub returns the snapshot fan-out.
func (c *Core) Hub() *mirror.Hub { return c.hub }

// Surface returns the display surface.
func (c *Core) Surface() surface.Surface { return c.surf }

// SetConfig clamps a copy of cfg and queues it for the next frame. It does
// not persist. When updates pile up the oldest pending one is dropped.
func (c *Core) SetConfig(cfg *config.Config) {
	cfg = cfg.Clone()
	cfg.Clamp()
	for {
		select {
		case c.updates <- cfg:
			return
		default:
		}
		select {
		case <-c.updates:
		default:
		}
	}
}

// RunTest queues a self-test pattern by name.
func (c *Core) RunTest(name string) error {
	k, ok := selftest.Parse(name)
	if !ok {
		c.diag.Push(diag.Diagnostic{
			Severity: diag.Warn, Code: diag.TestUnknown, Summary: "Unknown test name",
			Evidence: map[string]any{"name": name},
		})
		return fmt.Errorf("unknown test %q", name)
	}
	select {
	case c.tests <- k:
		return nil
	default:
		return fmt.Errorf("a test is already queued")
	}
}

// Run drives frames until ctx is done.
func (c *Core) Run(ctx context.Context) error {
	interval := c.interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info().Str("surface", c.surf.Name()).Str("mode", c.comp.Mode()).Dur("interval", interval).Msg("render loop starting")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Frame(ctx)
			if next := c.interval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

func (c *Core) interval() time.Duration {
	if c.cfg.FPS == config.DefaultFPS {
		return FrameInterval
	}
	return time.Second / time.Duration(c.cfg.FPS)
}

// Frame runs one loop iteration: pending updates, one time read, one
// tracker update, one draw, one compositor pass and flush, then publish.
func (c *Core) Frame(ctx context.Context) {
	c.drain()

	now, err := timesource.Read(ctx, c.src, timesource.FrameReadTimeout)
	c.noteTime(err)
	if err == nil {
		c.tracker.Update(clock.ReadingOf(now))
		c.dim(now)
	}

	c.fb.Clear(0)
	if c.runner != nil && !c.runner.Step(c.fb) {
		c.diag.Push(diag.Diagnostic{Severity: diag.Info, Code: diag.TestDone, Summary: "Test complete", Detail: string(c.runner.Kind())})
		c.runner = nil
	}
	if c.runner == nil {
		c.face.Draw(c.fb)
	} else {
		c.tracker.Tick()
	}

	l1, l2 := render.StatusLines(c.network().Summary(), c.tracker.DateText(), c.cfg.LEDDiameter, c.cfg.LEDGap, c.comp.Geometry())
	if err := c.comp.Compose(c.fb, l1, l2); err != nil {
		log.Debug().Err(err).Msg("compose")
	}

	c.frames++
	c.logRate()
	c.publish()
}

func (c *Core) drain() {
	for {
		select {
		case cfg := <-c.updates:
			c.apply(cfg)
		case k := <-c.tests:
			c.runner = selftest.NewRunner(selftest.Plan{Kind: k})
			c.diag.Push(diag.Diagnostic{Severity: diag.Info, Code: diag.TestRunning, Summary: "Running test", Detail: string(k)})
		default:
			return
		}
	}
}

func (c *Core) apply(cfg *config.Config) {
	prev := c.cfg
	c.cfg = cfg
	if cfg.Use24h != prev.Use24h || cfg.Seconds != prev.Seconds {
		c.face.SetFormat(cfg.Use24h, cfg.Seconds)
	}
	c.face.SetFont(glyph.FontByName(cfg.Font))
	c.face.SetPolicy(cfg.Morph)
	c.applyZone(cfg, prev)
	c.comp.Reconfigure(settingsOf(cfg))
	c.reportMode()
	c.applyDimmer(cfg)
	log.Info().
		Int("diameter", cfg.LEDDiameter).
		Int("gap", cfg.LEDGap).
		Str("color", ledcolor.NewColor(cfg.LEDColor).Hex()).
		Int("brightness", cfg.Brightness).
		Str("geometry", c.comp.Geometry().String()).
		Msg("config applied")
}

func (c *Core) applyZone(cfg, prev *config.Config) {
	if prev == nil || cfg.TZ != prev.TZ {
		loc, err := timesource.LoadZone(cfg.TZ)
		if err != nil {
			log.Warn().Err(err).Msg("time zone; using UTC")
			c.diag.Push(diag.Diagnostic{Severity: diag.Warn, Code: diag.ConfigZone, Summary: "Unknown time zone", Detail: err.Error()})
		}
		if z, ok := c.src.(zoned); ok {
			z.SetLocation(loc)
		}
	}
	if prev != nil && cfg.NTP != prev.NTP {
		if s, ok := c.src.(served); ok {
			s.SetServer(cfg.NTP)
		}
	}
}

func (c *Core) reportMode() {
	if c.comp.Degraded == nil {
		return
	}
	log.Warn().Err(c.comp.Degraded).Msg("off-screen buffer unavailable; drawing direct")
	c.diag.Push(diag.Diagnostic{
		Severity: diag.Warn, Code: diag.RenderDirect, Summary: "Rendering without off-screen buffer",
		Detail:         c.comp.Degraded.Error(),
		SuggestedFixes: []string{"raise sprite_budget_bytes", "lower the surface resolution"},
	})
}

// applyDimmer installs the schedule, or writes the fixed brightness.
func (c *Core) applyDimmer(cfg *config.Config) {
	c.schedule = nil
	if cfg.Dimmer.Enabled {
		s, err := dimmer.FromConfig(cfg.Dimmer.Keys)
		if err != nil {
			log.Warn().Err(err).Msg("dimmer disabled")
		} else {
			c.schedule = s
			c.levelAt = time.Time{}
			return
		}
	}
	c.setLevel(uint8(cfg.Brightness))
}

// dim evaluates the schedule at most once a second.
func (c *Core) dim(now time.Time) {
	if c.schedule == nil {
		return
	}
	if !c.levelAt.IsZero() && now.Sub(c.levelAt) < time.Second {
		return
	}
	c.levelAt = now
	c.setLevel(c.schedule.Level(now))
}

func (c *Core) setLevel(v uint8) {
	c.level = v
	if c.light == nil {
		return
	}
	if err := c.light.SetBrightness(v); err != nil {
		log.Debug().Err(err).Msg("backlight")
	}
}

func (c *Core) noteTime(err error) {
	if err != nil {
		log.Debug().Err(err).Msg("time read")
		if c.timeOK || !c.timeSeen {
			c.diag.Push(diag.Diagnostic{Severity: diag.Warn, Code: diag.TimeUnavailable, Summary: "Time source unavailable", Detail: err.Error()})
		}
	}
	c.timeOK = err == nil
	c.timeSeen = true
}

func (c *Core) network() netinfo.Info {
	now := time.Now()
	if !c.netAt.IsZero() && now.Sub(c.netAt) < netProbeInterval {
		return c.net
	}
	c.netAt = now
	info, err := c.probe()
	if err != nil {
		log.Debug().Err(err).Msg("network probe")
	}
	c.net = info
	return info
}

// logRate logs the frame rate once a second.
func (c *Core) logRate() {
	now := time.Now()
	if c.logAt.IsZero() {
		c.logAt, c.logBase = now, c.frames
		return
	}
	el := now.Sub(c.logAt)
	if el < renderLogEvery {
		return
	}
	c.fps = float64(c.frames-c.logBase) / el.Seconds()
	c.logAt, c.logBase = now, c.frames
	log.Debug().
		Uint64("frame", c.frames).
		Float64("fps", c.fps).
		Str("mode", c.comp.Mode()).
		Str("time", c.tracker.TimeText()).
		Int("step", c.tracker.Step()).
		Msg("render")
}

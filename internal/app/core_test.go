package app

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-retroclock/internal/clock"
	"github.com/coreman2200/funtimes-retroclock/internal/config"
	diag "github.com/coreman2200/funtimes-retroclock/internal/diagnostics"
	"github.com/coreman2200/funtimes-retroclock/internal/framebuffer"
	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
	"github.com/coreman2200/funtimes-retroclock/internal/morph"
	"github.com/coreman2200/funtimes-retroclock/internal/netinfo"
	"github.com/coreman2200/funtimes-retroclock/internal/surface"
)

type fakeSource struct {
	mu     sync.Mutex
	t      time.Time
	err    error
	loc    *time.Location
	server string
}

func (f *fakeSource) Now(ctx context.Context) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t, f.err
}

func (f *fakeSource) set(t time.Time, err error) {
	f.mu.Lock()
	f.t, f.err = t, err
	f.mu.Unlock()
}

func (f *fakeSource) SetLocation(loc *time.Location) { f.loc = loc }
func (f *fakeSource) SetServer(s string)             { f.server = s }

func online() (netinfo.Info, error) {
	return netinfo.Info{Name: "eth0", IP: "10.0.0.5", Up: true}, nil
}

var noon = time.Date(2025, 3, 9, 12, 34, 56, 0, time.UTC)

func newCore(t *testing.T, cfg *config.Config) (*Core, *fakeSource, *surface.Memory) {
	t.Helper()
	src := &fakeSource{t: noon}
	mem := surface.NewMemory(320, 240)
	c, err := New(Options{Config: cfg, Surface: mem, Source: src, Probe: online})
	require.NoError(t, err)
	return c, src, mem
}

func settle(c *Core) {
	for i := 0; i <= morph.DefaultSteps; i++ {
		c.Frame(context.Background())
	}
}

// staticFrame draws digits the way a settled face does.
func staticFrame(digits string, seconds bool) []byte {
	fb := framebuffer.New(framebuffer.MatrixW, framebuffer.MatrixH)
	tr := clock.NewTracker(morph.DefaultSteps, true, seconds)
	f := clock.NewFace(glyph.Tall, image.Pt(framebuffer.MatrixW, framebuffer.MatrixH), tr, morph.Builtin(morph.DefaultSteps), morph.NameSpawn)
	tr.Update(clock.Reading{Hour: int(digits[0]-'0')*10 + int(digits[1]-'0'), Minute: 34, Second: 56})
	for i := 0; i < morph.DefaultSteps; i++ {
		tr.Tick()
	}
	f.Draw(fb)
	return fb.Snapshot()
}

func hasCode(l *diag.Log, code string) bool {
	for _, d := range l.Recent() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{Surface: surface.NewMemory(10, 10)})
	assert.Error(t, err)
}

func TestInitialState(t *testing.T) {
	c, src, mem := newCore(t, nil)
	st := c.DisplayState()
	assert.Equal(t, TimeUnknown, st.Time)
	assert.Equal(t, "----/--/--", st.Date)
	assert.Equal(t, "------", st.Digits)
	assert.Len(t, c.Snapshot(), framebuffer.MatrixW*framebuffer.MatrixH)
	assert.Equal(t, uint8(255), mem.Brightness())
	assert.NotNil(t, src.loc)
	assert.Equal(t, "Australia/Sydney", src.loc.String())
	assert.Equal(t, 5, st.Geometry.Pitch)
	assert.Equal(t, 5, st.Geometry.Dot)
}

func TestFrameMorphsToTime(t *testing.T) {
	c, _, mem := newCore(t, nil)
	c.Frame(context.Background())
	st := c.DisplayState()
	assert.Equal(t, "12:34:56", st.Time)
	assert.Equal(t, "2025-03-09", st.Date)
	assert.Equal(t, "123456", st.Digits)
	assert.Equal(t, uint64(1), st.FrameID)
	assert.True(t, st.TimeOK)
	assert.Equal(t, "NET: eth0  IP: 10.0.0.5", st.Net.Summary())

	settle(c)
	assert.Equal(t, staticFrame("123456", true), c.Snapshot())
	assert.Equal(t, morph.DefaultSteps+2, mem.Flushes())
}

func TestTimeUnavailableKeepsDisplay(t *testing.T) {
	c, src, _ := newCore(t, nil)
	settle(c)
	before := c.Snapshot()

	src.set(time.Time{}, errors.New("no sync"))
	c.Frame(context.Background())
	c.Frame(context.Background())

	assert.Equal(t, before, c.Snapshot())
	st := c.DisplayState()
	assert.False(t, st.TimeOK)
	assert.Equal(t, "12:34:56", st.Time)

	n := 0
	for _, d := range c.Diag().Recent() {
		if d.Code == diag.TimeUnavailable {
			n++
		}
	}
	assert.Equal(t, 1, n, "reported once per outage")
}

func TestSetConfigAppliedBetweenFrames(t *testing.T) {
	c, src, mem := newCore(t, nil)
	cfg := config.Default()
	cfg.LEDDiameter = 3
	cfg.LEDGap = 20
	cfg.Brightness = 100
	cfg.NTP = "time.example"
	c.SetConfig(cfg)

	assert.Equal(t, 5, c.DisplayState().Config.LEDDiameter, "not applied until the next frame")
	c.Frame(context.Background())

	st := c.DisplayState()
	assert.Equal(t, 3, st.Config.LEDDiameter)
	assert.Equal(t, 8, st.Config.LEDGap)
	assert.Equal(t, 1, st.Geometry.Dot, "gap clamps to pitch-1")
	assert.Equal(t, 4, st.Geometry.Gap)
	assert.Equal(t, uint8(100), mem.Brightness())
	assert.Equal(t, "time.example", src.server)
}

func TestSetConfigDropsOldestPending(t *testing.T) {
	c, _, _ := newCore(t, nil)
	for i := 1; i <= 10; i++ {
		cfg := config.Default()
		cfg.LEDDiameter = i
		c.SetConfig(cfg)
	}
	c.Frame(context.Background())
	assert.Equal(t, 10, c.DisplayState().Config.LEDDiameter)
}

func TestFormatSwitch(t *testing.T) {
	c, _, _ := newCore(t, nil)
	settle(c)
	cfg := config.Default()
	cfg.Seconds = false
	c.SetConfig(cfg)
	settle(c)
	assert.Equal(t, "1234", c.DisplayState().Digits)
	assert.Equal(t, staticFrame("1234", false), c.Snapshot())
}

func TestRunTest(t *testing.T) {
	c, _, _ := newCore(t, nil)
	assert.Error(t, c.RunTest("plane_z"))
	assert.True(t, hasCode(c.Diag(), diag.TestUnknown))

	require.NoError(t, c.RunTest("fill"))
	c.Frame(context.Background())
	for _, v := range c.Snapshot() {
		require.Equal(t, uint8(255), v)
	}
	assert.Equal(t, "fill", c.DisplayState().Test)
	assert.True(t, hasCode(c.Diag(), diag.TestRunning))

	for i := 0; i < 100 && c.DisplayState().Test != ""; i++ {
		c.Frame(context.Background())
	}
	assert.Equal(t, "", c.DisplayState().Test)
	assert.True(t, hasCode(c.Diag(), diag.TestDone))
}

func TestSnapshotsReachHub(t *testing.T) {
	c, _, _ := newCore(t, nil)
	frames, cancel := c.Hub().Subscribe(1)
	defer cancel()
	c.Frame(context.Background())
	f := <-frames
	assert.Equal(t, uint64(1), f.ID)
	assert.Equal(t, 64, f.W)
	assert.Len(t, f.Pix, 2048)
}

func TestDimmerSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.TZ = "UTC"
	cfg.Dimmer = config.Dimmer{Enabled: true, Keys: []config.DimKey{{At: "00:00", Level: 10}, {At: "12:00", Level: 200}}}
	c, src, mem := newCore(t, cfg)
	src.set(time.Date(2025, 3, 9, 6, 0, 0, 0, time.UTC), nil)
	c.Frame(context.Background())
	assert.Equal(t, uint8(105), mem.Brightness())
	assert.Equal(t, uint8(105), c.DisplayState().Brightness)
}

func TestDirectModeDiagnostic(t *testing.T) {
	cfg := config.Default()
	cfg.SpriteBudget = 1024
	c, _, _ := newCore(t, cfg)
	assert.Equal(t, "direct", c.DisplayState().Mode)
	assert.True(t, hasCode(c.Diag(), diag.RenderDirect))
}

func TestUnknownZone(t *testing.T) {
	cfg := config.Default()
	cfg.TZ = "Nowhere/Special"
	c, src, _ := newCore(t, cfg)
	assert.Equal(t, time.UTC, src.loc)
	assert.True(t, hasCode(c.Diag(), diag.ConfigZone))
}

func TestRunStopsOnCancel(t *testing.T) {
	c, _, mem := newCore(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err := c.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, mem.Flushes(), 0)
	assert.Greater(t, c.DisplayState().FrameID, uint64(0))
}

package surface

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal previews the display in a terminal, two pixel rows per character
// cell using the upper half block.
type Terminal struct {
	*image.RGBA

	screen tcell.Screen

	mu         sync.Mutex
	brightness uint8
	quit       chan struct{}
	once       sync.Once
}

// NewTerminal takes over the controlling terminal. The surface is sized to the
// terminal at start; later resizes are ignored.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal init: %w", err)
	}
	return newTerminalOn(screen), nil
}

func newTerminalOn(screen tcell.Screen) *Terminal {
	cols, rows := screen.Size()
	screen.HideCursor()
	screen.Clear()
	t := &Terminal{
		RGBA:       image.NewRGBA(image.Rect(0, 0, cols, rows*2)),
		screen:     screen,
		brightness: 255,
		quit:       make(chan struct{}),
	}
	go t.poll()
	return t
}

func (t *Terminal) Name() string { return DriverTerm }

// Quit is closed when the user presses q, Escape or Ctrl-C; the terminal is in
// raw mode so SIGINT never arrives.
func (t *Terminal) Quit() <-chan struct{} { return t.quit }

func (t *Terminal) poll() {
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				t.once.Do(func() { close(t.quit) })
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) Flush() error {
	t.mu.Lock()
	b := t.brightness
	t.mu.Unlock()

	bounds := t.RGBA.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := scaleRGBA(t.RGBAAt(x, y), b)
			bottom := scaleRGBA(t.RGBAAt(x, y+1), b)
			r, st := halfBlock(top, bottom)
			t.screen.SetContent(x, y/2, r, nil, st)
		}
	}
	t.screen.Show()
	return nil
}

func (t *Terminal) SetBrightness(v uint8) error {
	t.mu.Lock()
	t.brightness = v
	t.mu.Unlock()
	return nil
}

func (t *Terminal) Close() error {
	t.screen.Fini()
	return nil
}

// halfBlock renders two stacked pixels as one cell.
func halfBlock(top, bottom color.RGBA) (rune, tcell.Style) {
	fg := tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))
	bg := tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B))
	return '▀', tcell.StyleDefault.Foreground(fg).Background(bg)
}

// Package glyph builds the seven-segment digit and colon bitmaps drawn by the
// clock face. Bitmaps are generated once from a declarative segment table and
// never mutated afterwards.
package glyph

// Segment indices, clockwise from the top bar with g in the middle.
const (
	SegA = iota // top
	SegB        // right upper
	SegC        // right lower
	SegD        // bottom
	SegE        // left lower
	SegF        // left upper
	SegG        // middle
)

// MaxWidth is the widest glyph a Bitmap row word can carry.
const MaxWidth = 32

var segments = [10][7]bool{
	{true, true, true, true, true, true, false},     // 0
	{false, true, true, false, false, false, false}, // 1
	{true, true, false, true, true, false, true},    // 2
	{true, true, true, true, false, false, true},    // 3
	{false, true, true, false, false, true, true},   // 4
	{true, false, true, true, false, true, true},    // 5
	{true, false, true, true, true, true, true},     // 6
	{true, true, true, false, false, false, false},  // 7
	{true, true, true, true, true, true, true},      // 8
	{true, true, true, true, false, true, true},     // 9
}

// Font holds the raster parameters of one glyph set.
type Font struct {
	Name      string
	W, H      int
	Thickness int
	PadX      int
	PadY      int
	ColonW    int
}

var (
	// Tall matches a 64x32 panel showing HH:MM:SS.
	Tall = Font{Name: "tall", W: 9, H: 32, Thickness: 4, PadX: 0, PadY: 1, ColonW: 2}
	// Compact is the wider, shorter face. It only fits HH:MM on 64 columns
	// and is drawn at its own height, centered vertically.
	Compact = Font{Name: "compact", W: 14, H: 24, Thickness: 4, PadX: 1, PadY: 1, ColonW: 2}
)

// FontByName returns a preset; unknown names yield Tall.
func FontByName(name string) Font {
	switch name {
	case Compact.Name:
		return Compact
	default:
		return Tall
	}
}

// Bitmap is an immutable W x H grid of on/off bits. Row words hold the
// leftmost column in the most significant bit.
type Bitmap struct {
	w, h int
	rows []uint32
}

func newBitmap(w, h int) Bitmap {
	if w > MaxWidth {
		w = MaxWidth
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Bitmap{w: w, h: h, rows: make([]uint32, h)}
}

func (b Bitmap) Width() int  { return b.w }
func (b Bitmap) Height() int { return b.h }

// At reports whether the bit at x,y is on. Out of range reads are off.
func (b Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return false
	}
	return b.rows[y]&(1<<uint(MaxWidth-1-x)) != 0
}

// Count returns the number of on bits.
func (b Bitmap) Count() int {
	n := 0
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			if b.At(x, y) {
				n++
			}
		}
	}
	return n
}

// Bytes returns the row words big-endian, four bytes per row.
func (b Bitmap) Bytes() []byte {
	out := make([]byte, 0, len(b.rows)*4)
	for _, r := range b.rows {
		out = append(out, byte(r>>24), byte(r>>16), byte(r>>8), byte(r))
	}
	return out
}

func (b Bitmap) set(x, y int) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	b.rows[y] |= 1 << uint(MaxWidth-1-x)
}

func (b Bitmap) fill(x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.set(x, y)
		}
	}
}

// BuildDigit rasterizes d with the font's bar geometry. Values outside 0..9
// give a blank glyph.
func BuildDigit(f Font, d int) Bitmap {
	bm := newBitmap(f.W, f.H)
	if d < 0 || d > 9 {
		return bm
	}
	seg := segments[d]
	w, h := bm.w, bm.h
	th, px, py := f.Thickness, f.PadX, f.PadY
	mid := h / 2

	if seg[SegA] {
		bm.fill(px, py, w-px, py+th)
	}
	if seg[SegD] {
		bm.fill(px, h-py-th, w-px, h-py)
	}
	if seg[SegG] {
		bm.fill(px, mid-th/2, w-px, mid-th/2+th)
	}
	if seg[SegF] {
		bm.fill(px, py, px+th, mid)
	}
	if seg[SegB] {
		bm.fill(w-px-th, py, w-px, mid)
	}
	if seg[SegE] {
		bm.fill(px, mid, px+th, h-py)
	}
	if seg[SegC] {
		bm.fill(w-px-th, mid, w-px, h-py)
	}
	return bm
}

// BuildColon rasterizes the two separator dots, placed at the same relative
// heights for every font.
func BuildColon(f Font) Bitmap {
	bm := newBitmap(f.ColonW, f.H)
	dot := 3 * f.H / 32
	if dot < 2 {
		dot = 2
	}
	upper := f.H * 10 / 32
	lower := f.H * 19 / 32
	bm.fill(0, upper, f.ColonW, upper+dot)
	bm.fill(0, lower, f.ColonW, lower+dot)
	return bm
}

// Parse builds a bitmap from text rows, '#' marking an on bit. The widest row
// sets the width.
func Parse(lines ...string) Bitmap {
	w := 0
	for _, l := range lines {
		if len(l) > w {
			w = len(l)
		}
	}
	bm := newBitmap(w, len(lines))
	for y, l := range lines {
		for x := 0; x < len(l); x++ {
			if l[x] == '#' {
				bm.set(x, y)
			}
		}
	}
	return bm
}

// Set is the full glyph table for one font.
type Set struct {
	Font   Font
	digits [10]Bitmap
	colon  Bitmap
	blank  Bitmap
}

func NewSet(f Font) *Set {
	s := &Set{Font: f, colon: BuildColon(f), blank: BuildDigit(f, -1)}
	for d := 0; d < 10; d++ {
		s.digits[d] = BuildDigit(f, d)
	}
	return s
}

// Digit returns the glyph for r. Anything other than '0'..'9' is blank, which
// covers the placeholder shown before the first time reading.
func (s *Set) Digit(r byte) Bitmap {
	if !IsDigit(r) {
		return s.blank
	}
	return s.digits[r-'0']
}

func (s *Set) Colon() Bitmap { return s.colon }

// IsDigit reports whether r has a digit glyph of its own.
func IsDigit(r byte) bool { return r >= '0' && r <= '9' }

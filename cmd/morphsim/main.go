package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"github.com/coreman2200/funtimes-retroclock/internal/framebuffer"
	"github.com/coreman2200/funtimes-retroclock/internal/glyph"
	"github.com/coreman2200/funtimes-retroclock/internal/morph"
)

// shades maps intensity to a character, dark to bright.
const shades = " .:-=+*#%@"

func main() {
	var (
		from, to  string
		name      string
		font      string
		steps     int
		onlyStep  int
		listNames bool
	)
	flag.StringVar(&from, "from", "1", "digit to morph from ('-' for blank)")
	flag.StringVar(&to, "to", "2", "digit to morph to")
	flag.StringVar(&name, "morph", morph.NameParticle, "morph: crossfade | spawn | particle")
	flag.StringVar(&font, "font", glyph.Tall.Name, "glyph set: tall | compact")
	flag.IntVar(&steps, "steps", morph.DefaultSteps, "frames per morph")
	flag.IntVar(&onlyStep, "step", -1, "print only this step")
	flag.BoolVar(&listNames, "list", false, "list morphs and exit")
	flag.Parse()

	reg := morph.Builtin(steps)
	if listNames {
		fmt.Println(strings.Join(reg.List(), "\n"))
		return
	}
	m, ok := reg.Get(name)
	if !ok {
		log.Fatalf("unknown morph %q (have %s)", name, strings.Join(reg.List(), ", "))
	}
	if len(from) != 1 || len(to) != 1 {
		log.Fatal("-from and -to take a single character")
	}

	f := glyph.FontByName(font)
	set := glyph.NewSet(f)
	a, b := set.Digit(from[0]), set.Digit(to[0])
	fb := framebuffer.New(f.W, f.H)

	for s := 0; s <= steps; s++ {
		if onlyStep >= 0 && s != onlyStep {
			continue
		}
		fb.Clear(0)
		m.Apply(fb, a, b, s, image.Point{}, f.W)
		fmt.Fprintf(os.Stdout, "%s %s->%s step %d/%d\n", m.Name(), from, to, s, steps)
		printFrame(fb)
	}
}

func printFrame(fb *framebuffer.Buffer) {
	var sb strings.Builder
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			v := int(fb.Get(x, y))
			sb.WriteByte(shades[v*(len(shades)-1)/255])
		}
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
}

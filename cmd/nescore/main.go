// Command nescore is the ebiten frontend: it owns the window, polls
// keyboard input into a control pad, and blits the PPU's finished
// frame every tick.
package main

import (
	"context"
	"flag"
	"image/color"
	"log"
	"time"

	"github.com/ashgrove-labs/nescore/cartridge"
	"github.com/ashgrove-labs/nescore/console"
	"github.com/ashgrove-labs/nescore/input"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	romFile = flag.String("nes_rom", "", "Path to the iNES ROM to run.")
	scale   = flag.Int("scale", 2, "Integer window scale factor.")
	debug   = flag.Bool("debug", false, "Run the interactive terminal debugger instead of the ebiten window.")
)

// ebitenSink implements ppu.VideoSink over a raw RGBA buffer, uploaded
// to an ebiten.Image once per frame rather than per pixel.
type ebitenSink struct {
	w, h int
	pix  []byte
	img  *ebiten.Image
}

func (s *ebitenSink) InitVideo(w, h int) {
	s.w, s.h = w, h
	s.pix = make([]byte, w*h*4)
	s.img = ebiten.NewImage(w, h)
}

func (s *ebitenSink) SetPixel(x, y int, rgba uint32) {
	c := color.RGBA{
		R: uint8(rgba >> 16),
		G: uint8(rgba >> 8),
		B: uint8(rgba),
		A: 0xFF,
	}
	off := (y*s.w + x) * 4
	s.pix[off], s.pix[off+1], s.pix[off+2], s.pix[off+3] = c.R, c.G, c.B, c.A
}

func (s *ebitenSink) flush() {
	s.img.WritePixels(s.pix)
}

// game adapts a Console to ebiten.Game: poll keys into the pad, step
// one NES frame, present the sink's image.
type game struct {
	console *console.Console
	sink    *ebitenSink
	pad     *input.ControlPad
}

var keymap = []struct {
	key input.Button
	ek  ebiten.Key
}{
	{input.A, ebiten.KeyZ},
	{input.B, ebiten.KeyX},
	{input.Select, ebiten.KeyShiftRight},
	{input.Start, ebiten.KeyEnter},
	{input.Up, ebiten.KeyUp},
	{input.Down, ebiten.KeyDown},
	{input.Left, ebiten.KeyLeft},
	{input.Right, ebiten.KeyRight},
}

func (g *game) Update() error {
	var mask uint8
	for _, k := range keymap {
		if ebiten.IsKeyPressed(k.ek) {
			mask |= uint8(k.key)
		}
	}
	g.pad.SetButtons(mask)

	g.console.Update(time.Second / 60)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.sink.flush()
	screen.DrawImage(g.sink.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.sink.w, g.sink.h
}

func main() {
	flag.Parse()

	if *romFile == "" {
		log.Fatal("missing required -nes_rom flag")
	}

	cart, err := cartridge.NewFromFile(*romFile)
	if err != nil {
		log.Fatalf("loading ROM %q: %v", *romFile, err)
	}

	sink := &ebitenSink{}
	nes := console.New(sink)
	nes.InsertCartridge(cart)

	pad := input.NewControlPad()
	nes.AttachController(0, pad)

	if *debug {
		console.NewDebugger(nes).Run(context.Background())
		return
	}

	ebiten.SetWindowSize(sink.w*(*scale), sink.h*(*scale))
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{console: nes, sink: sink, pad: pad}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

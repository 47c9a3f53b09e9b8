package sapling

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures a window opened by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	TPS        int
	ClearColor Color

	// Update, when set, runs once per tick before the scene updates.
	// Returning ErrQuit ends the loop cleanly; any other error is returned
	// from Run.
	Update func() error
}

// ErrQuit ends Run without an error when returned from RunConfig.Update.
var ErrQuit = errors.New("sapling: quit")

// Run opens a window and drives scene at a fixed tick rate until the
// window closes or Update asks to stop.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 640, 480
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)

	err := ebiten.RunGame(&gameLoop{scene: scene, cfg: cfg})
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// gameLoop adapts a Scene to ebiten.Game.
type gameLoop struct {
	scene *Scene
	cfg   RunConfig
}

func (g *gameLoop) Update() error {
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	g.scene.UpdateTick()
	return nil
}

func (g *gameLoop) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor.A > 0 {
		screen.Fill(g.cfg.ClearColor)
	}
	g.scene.DrawScreen(screen)
}

func (g *gameLoop) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

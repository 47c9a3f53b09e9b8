package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/sapling"
	"github.com/phanxgames/sapling/config"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	debug      bool
	iterations int
	headless   int
	watch      bool
	script     string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ikdemo",
		Short: "Run the inverse-kinematics arm demo",
		Long: `Run a three-joint arm that reaches for a target orbiting its base.

Without --headless a window opens and runs until closed; P saves a
screenshot. With --headless N the scene runs N frames offscreen and prints
the end-effector error after each frame.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug checks and timing output")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "solver passes per frame (overrides config)")
	cmd.Flags().IntVar(&opts.headless, "headless", 0, "run N frames without a window")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the config file when it changes")
	cmd.Flags().StringVar(&opts.script, "script", "", "path to a test script of moves, waits, and screenshots")

	return cmd
}

func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = opts.debug
	}
	if cmd.Flags().Changed("iterations") {
		cfg.IK.Iterations = opts.iterations
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if opts.watch && opts.configPath == "" {
		return fmt.Errorf("--watch needs --config")
	}

	d, err := newDemo(cfg)
	if err != nil {
		return err
	}
	if opts.script != "" {
		data, err := os.ReadFile(opts.script)
		if err != nil {
			return fmt.Errorf("script: %w", err)
		}
		runner, err := sapling.LoadTestScript(data)
		if err != nil {
			return err
		}
		d.scene.SetTestRunner(runner)
	}
	if opts.headless > 0 {
		return runHeadless(cmd.OutOrStdout(), d, cfg, opts.headless)
	}
	return runWindow(d, cfg, opts)
}

func runHeadless(out io.Writer, d *demo, cfg config.Config, frames int) error {
	tps := cfg.Window.TPS
	if tps <= 0 {
		tps = 60
	}
	rec := &sapling.DrawRecorder{}
	for i := 0; i < frames; i++ {
		d.scene.Update(1 / float64(tps))
		rec.Reset()
		d.scene.Draw(rec)
		fmt.Fprintf(out, "frame %d: error %.6f draws %d in view %t\n",
			i+1, d.arm.Chain().Error(), rec.Len(), d.targetInView())
	}
	return nil
}

func runWindow(d *demo, cfg config.Config, opts *options) error {
	var watcher *config.Watcher
	if opts.watch {
		var err error
		if watcher, err = config.NewWatcher(opts.configPath); err != nil {
			return err
		}
		defer watcher.Close()
	}

	return sapling.Run(d.scene, sapling.RunConfig{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		TPS:        cfg.Window.TPS,
		ClearColor: sapling.Color{R: 0.08, G: 0.08, B: 0.1, A: 1},
		Update: func() error {
			if inpututil.IsKeyJustPressed(ebiten.KeyP) {
				d.scene.Screenshot("ikdemo")
			}
			if watcher == nil {
				return nil
			}
			select {
			case next := <-watcher.Changes:
				if cfg := overrideIterations(next, opts); cfg.Validate() == nil {
					d.apply(cfg)
					sapling.Debugf("config reloaded from %s", opts.configPath)
				}
			case err := <-watcher.Errors:
				sapling.Debugf("config reload failed: %v", err)
			default:
			}
			return nil
		},
	})
}

// overrideIterations keeps a command-line --iterations in force across
// reloads.
func overrideIterations(cfg config.Config, opts *options) config.Config {
	if opts.iterations > 0 {
		cfg.IK.Iterations = opts.iterations
	}
	return cfg
}

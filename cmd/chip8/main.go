package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Output backend: terminal, headless or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing for interactive backends: adaptive or ticker",
			Value: "adaptive",
		},
		cli.IntFlag{
			Name:  "cpu-hz",
			Usage: "Instructions executed per second",
			Value: timing.DefaultCPUFrequency,
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "Seed for the RND instruction (0 = random)",
		},
		cli.BoolFlag{
			Name:  "cosmac",
			Usage: "Enable every COSMAC VIP quirk, individual quirk flags are added on top",
		},
		cli.BoolFlag{
			Name:  "quirk-shift-vy",
			Usage: "SHR/SHL shift Vy into Vx instead of shifting Vx in place",
		},
		cli.BoolFlag{
			Name:  "quirk-load-store",
			Usage: "Fx55/Fx65 increment I past the last register",
		},
		cli.BoolFlag{
			Name:  "quirk-jump-vx",
			Usage: "Bxnn jumps to xnn + Vx instead of nnn + V0",
		},
		cli.BoolFlag{
			Name:  "quirk-vf-reset",
			Usage: "OR/AND/XOR reset VF to 0",
		},
		cli.BoolFlag{
			Name:  "quirk-clip",
			Usage: "Clip sprites at the screen edge instead of wrapping them",
		},
		cli.BoolFlag{
			Name:  "quirk-key-release",
			Usage: "Fx0A completes when the key is released instead of pressed",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the sdl2 backend",
			Value: display.DefaultPixelScale,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show the debug panel and log at debug level",
		},
	}
	app.Action = runEmulator
	return app
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	if c.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	emu, err := chip8.NewWithFile(romPath, machineOptions(c)...)
	if err != nil {
		return err
	}

	b, limiter, err := createBackend(c, romPath)
	if err != nil {
		return err
	}
	if ticker, ok := limiter.(*timing.TickerLimiter); ok {
		defer ticker.Stop()
	}

	config := backend.BackendConfig{
		Title:         romTitle(romPath),
		Scale:         c.Int("scale"),
		ShowDebug:     c.Bool("debug"),
		DebugProvider: emu,
	}
	if err := b.Init(config); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Failed to clean up backend", "error", err)
		}
	}()

	return chip8.Run(emu, b, limiter)
}

func machineOptions(c *cli.Context) []chip8.Option {
	opts := []chip8.Option{
		chip8.WithQuirks(quirksFromFlags(c)),
		chip8.WithCPUFrequency(c.Int("cpu-hz")),
	}
	if seed := c.Int64("seed"); seed != 0 {
		opts = append(opts, chip8.WithRandomSource(cpu.NewRandomSource(uint64(seed))))
	}
	return opts
}

func quirksFromFlags(c *cli.Context) cpu.Quirks {
	var q cpu.Quirks
	if c.Bool("cosmac") {
		q = cpu.COSMACQuirks()
	}
	q.ShiftUsesVY = q.ShiftUsesVY || c.Bool("quirk-shift-vy")
	q.LoadStoreIncrementsI = q.LoadStoreIncrementsI || c.Bool("quirk-load-store")
	q.JumpUsesVX = q.JumpUsesVX || c.Bool("quirk-jump-vx")
	q.LogicResetsVF = q.LogicResetsVF || c.Bool("quirk-vf-reset")
	q.ClipSprites = q.ClipSprites || c.Bool("quirk-clip")
	q.WaitForRelease = q.WaitForRelease || c.Bool("quirk-key-release")
	return q
}

func createBackend(c *cli.Context, romPath string) (backend.Backend, timing.Limiter, error) {
	switch name := c.String("backend"); name {
	case "terminal", "sdl2":
		limiter, err := newLimiter(c.String("limiter"))
		if err != nil {
			return nil, nil, err
		}
		if name == "sdl2" {
			return sdl2.New(), limiter, nil
		}
		return terminal.New(), limiter, nil
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, nil, errors.New("headless mode requires --frames option with a positive value")
		}
		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, nil, err
		}
		return headless.New(frames, snapshotConfig), timing.NewNoOpLimiter(), nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q, expected terminal, headless or sdl2", name)
	}
}

func newLimiter(name string) (timing.Limiter, error) {
	switch name {
	case "adaptive":
		return timing.NewAdaptiveLimiter(), nil
	case "ticker":
		return timing.NewTickerLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q, expected adaptive or ticker", name)
	}
}

func romTitle(romPath string) string {
	name := filepath.Base(romPath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Command muon opens a project, brings up the Vulkan device against a
// GLFW window, and drives the engine's frame loop. No teacher
// equivalent (the teacher only ships test/render_test.go as an
// executable surface); grounded on the corpus's cmd/*/main.go
// convention and stdlib flag, per SPEC_FULL §2.1.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/andewx/muon/internal/device"
	"github.com/andewx/muon/internal/project"
	muon "github.com/andewx/muon/renderer"
)

func main() {
	projectPath := flag.String("project", ".", "path to the project directory")
	projectName := flag.String("name", "untitled", "project name, used when creating a new project")
	width := flag.Int("width", 1280, "window width in pixels")
	height := flag.Int("height", 720, "window height in pixels")
	debug := flag.Bool("debug", false, "enable Vulkan validation layers and debug logging")
	flag.Parse()

	log := newLogger(*debug)

	if err := run(*projectPath, *projectName, *width, *height, *debug, log); err != nil {
		log.Error("muon: fatal", "error", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(projectPath, projectName string, width, height int, debug bool, log *slog.Logger) error {
	proj, err := project.Load(projectPath)
	if errors.Is(err, project.ErrProjectFileDoesNotExist) {
		proj, err = project.Create(projectPath, projectName)
	}
	if err != nil {
		return fmt.Errorf("opening project: %w", err)
	}
	log.Info("muon: project ready", "name", proj.Name(), "path", proj.Path())

	window, err := NewWindowSurface(width, height, proj.Name(), log)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	renderer, err := muon.New(window, device.Options{AppName: proj.Name(), Debug: debug, Log: log})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	defer renderer.Destroy()

	log.Info("muon: hdr support", "supported", renderer.HasHDRSupport())

	for !window.ShouldClose() {
		window.PollEvents()
		drainEvents(window, renderer, log)

		cmd, _, err := renderer.BeginFrame()
		if err != nil {
			if rebuildErr := renderer.RebuildSwapchain(); rebuildErr != nil {
				return fmt.Errorf("rebuilding swapchain: %w", rebuildErr)
			}
			continue
		}
		_ = cmd
		if err := renderer.EndFrame(); err != nil {
			if rebuildErr := renderer.RebuildSwapchain(); rebuildErr != nil {
				return fmt.Errorf("rebuilding swapchain: %w", rebuildErr)
			}
		}
	}
	return nil
}

func drainEvents(window *WindowSurface, renderer *muon.Renderer, log *slog.Logger) {
	for {
		select {
		case ev := <-window.Events():
			switch ev.(type) {
			case CloseEvent:
				log.Debug("muon: window close requested")
			case ResizeEvent:
				if err := renderer.RebuildSwapchain(); err != nil {
					log.Warn("muon: swapchain rebuild on resize failed", "error", err)
				}
			}
		default:
			return
		}
	}
}

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hypr-minimize/internal/app"
	"hypr-minimize/pkg/config"
	"hypr-minimize/pkg/global"
	"hypr-minimize/pkg/logger"
)

const version = "1.0.0"

var (
	configPath string
	debug      bool

	log *logger.Logger
)

func main() {
	err := newRootCmd().Execute()
	if log != nil {
		log.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hypr-minimize",
		Short: "Minimize Hyprland windows to a tray icon",
		Long: `hypr-minimize moves the focused Hyprland window to the hidden
special:minimized workspace and puts a StatusNotifierItem icon in your bar
(Waybar or any other tray host). Clicking the icon or its menu restores or
closes the window; the process exits once the window is visible again.

Running without a subcommand minimizes the focused window.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setup() },
		RunE:              runMinimize,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newMinimizeCmd(),
		newListCmd(),
		newRestoreCmd(),
		newCloseCmd(),
		newHistoryCmd(),
	)
	return root
}

// setup initializes the logger, configuration and globals for every command.
func setup() error {
	logLevel := zerolog.InfoLevel
	if debug {
		logLevel = zerolog.DebugLevel
	}

	var err error
	log, err = logger.NewLogger(
		logger.WithConsole(),
		logger.WithLevel(logLevel),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Debug("Starting hypr-minimize",
		"version", version,
		"pid", os.Getpid(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
		"debug", debug)

	cfg, err := config.FindConfig(configPath, log)
	if err != nil {
		log.Error("Failed to load configuration", err, "provided_path", configPath)
		return err
	}
	log.Debug("Configuration loaded",
		"special_workspace", cfg.GetSpecialWorkspace(),
		"poll_interval", cfg.GetPollInterval().String(),
		"history_enabled", cfg.HistoryEnabled())

	global.InitGlobals(cfg, log)
	return nil
}

func newMinimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "minimize",
		Short: "Minimize the focused window (same as running without a subcommand)",
		RunE:  runMinimize,
	}
}

func runMinimize(cmd *cobra.Command, args []string) error {
	minimizer, err := app.NewMinimizer()
	if err != nil {
		log.Error("Failed to create minimizer", err)
		return err
	}
	defer minimizer.Close()

	if err := minimizer.Run(); err != nil {
		log.Error("Minimize failed", err)
		return err
	}
	return nil
}

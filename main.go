package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/netguardian/config"
	"github.com/spf13/cobra"
)

var (
	flagLevel       int
	flagDebug       bool
	flagConfig      string
	flagBaseMonitor bool
)

func main() {
	root := &cobra.Command{
		Use:           "netguardian",
		Short:         "Defend the network, one sector at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGame,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.yaml")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging and hot reload")
	root.Flags().IntVar(&flagLevel, "level", -1, "level index for the first run (debug)")
	root.Flags().BoolVarP(&flagBaseMonitor, "monitor", "m", false, "use base monitor instead of primary (for multi-monitor setups)")

	root.AddCommand(newLevelsCmd(), newRunsCmd())

	if err := root.Execute(); err != nil {
		newLogger(false).Error("netguardian failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "netguardian",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func loadConfig(logger *log.Logger) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDebug {
		cfg.Debug = true
	}
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

func runGame(_ *cobra.Command, _ []string) error {
	logger := newLogger(flagDebug)
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	if flagBaseMonitor {
		if monitors := ebiten.AppendMonitors(nil); len(monitors) > 0 {
			ebiten.SetMonitor(monitors[0])
		}
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetTPS(cfg.TPS)

	game, err := NewGame(cfg, flagLevel, logger)
	if err != nil {
		return err
	}
	defer game.Close()

	return ebiten.RunGame(game)
}

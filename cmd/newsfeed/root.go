package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abelbrown/newsfeed/internal/config"
	"github.com/abelbrown/newsfeed/internal/logging"
	"github.com/abelbrown/newsfeed/internal/otel"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool
	flagTrace   bool
)

// runtime is shared by every subcommand after PersistentPreRunE.
type runtime struct {
	cfg     *config.Config
	events  *otel.Logger
	ring    *otel.RingBuffer
	evFile  *os.File
	dataDir string
}

var rt runtime

var rootCmd = &cobra.Command{
	Use:               "newsfeed",
	Short:             "Search a news collection from the terminal",
	Long:              "newsfeed filters a news collection by category tab and free text, highlighting every match.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for logs and telemetry (default "+config.DataDir()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&flagTrace, "trace", false, "record every keystroke as a telemetry event")

	rootCmd.AddCommand(tuiCmd, searchCmd, serveCmd, importCmd, seedCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Printing the version needs no config, logs or store.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "newsfeed %s (commit: %s)\n", version, commit)
	},
}

func setup(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	dir := flagDataDir
	if dir == "" {
		dir = config.DataDir()
	} else if cfg.Store.Path == config.DefaultConfig().Store.Path {
		cfg.Store.Path = filepath.Join(dir, "newsfeed.db")
	}
	level := log.InfoLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	if err := logging.Init(dir, level); err != nil {
		return err
	}
	if flagTrace {
		otel.SetTraceEnabled(true)
	}

	evFile, err := os.OpenFile(filepath.Join(dir, "events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}

	rt = runtime{
		cfg:     cfg,
		events:  otel.NewLogger(evFile),
		ring:    otel.NewRingBuffer(otel.DefaultRingSize),
		evFile:  evFile,
		dataDir: dir,
	}
	rt.events.SetRingBuffer(rt.ring)
	rt.events.Info(otel.KindStartup, "main", cmd.Name())
	logging.Info("newsfeed started", "command", cmd.Name(), "version", version)
	return nil
}

// teardown flushes telemetry and closes log files. It runs after Execute
// returns, including on error.
func teardown() {
	if rt.events != nil {
		rt.events.Info(otel.KindShutdown, "main", "exit")
		rt.events.Close()
		if d := rt.events.Dropped(); d > 0 {
			logging.Warn("telemetry events dropped", "count", d)
		}
	}
	if rt.evFile != nil {
		rt.evFile.Close()
	}
	logging.Close()
	rt = runtime{}
}

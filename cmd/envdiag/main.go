// envdiag: environment and resolution diagnostics for desktop sessions
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wattfource/envdiag/internal/config"
	"github.com/wattfource/envdiag/internal/display"
	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/logging"
	"github.com/wattfource/envdiag/internal/report"
	"github.com/wattfource/envdiag/internal/sysinfo"
	"github.com/wattfource/envdiag/internal/tui"
	"github.com/wattfource/envdiag/internal/window"
)

// Version is set at build time
var Version = "dev"

var (
	configPath string
	logLevel   string
	logFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "envdiag",
		Short: "Environment & resolution diagnostics",
		Long: `envdiag shows the geometry of the terminal window it runs in and
updates it on every resize. Press "Print Details to Console" to dump the
display configuration, desktop session variables, platform properties and
a ChromeOS (Crostini) container check into the scrollback.`,
		Version:           Version,
		PersistentPreRunE: setup,
		Run:               runInteractive,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default "+logging.DefaultPath()+")")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the diagnostics once and exit",
		Args:  cobra.NoArgs,
		Run:   runReport,
	}
	reportCmd.Flags().StringP("format", "f", "text", "output format: text, json, yaml or markdown")

	displaysCmd := &cobra.Command{
		Use:   "displays",
		Short: "Print only the screen information",
		Args:  cobra.NoArgs,
		Run:   runDisplays,
	}

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "View or clear the envdiag log",
		Args:  cobra.NoArgs,
		Run:   runLogs,
	}
	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().Bool("clear", false, "Remove the log and its rotated copies")

	rootCmd.AddCommand(reportCmd, displaysCmd, logsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries everything the commands share once setup has run
type app struct {
	cfg      *config.Config
	env      sysinfo.Env
	runner   sysinfo.Runner
	locator  window.Locator
	displays display.Enumerator
}

var current *app

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.JSONMode = cfg.LogJSON
	if cfg.LogFile != "" {
		logCfg.FilePath = cfg.LogFile
	}
	if err := logging.Init(logCfg); err != nil {
		// not fatal, the logger discards instead
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	env := sysinfo.OSEnv{}
	runner := sysinfo.ExecRunner{Timeout: cfg.CommandTimeout}
	current = &app{
		cfg:      cfg,
		env:      env,
		runner:   runner,
		locator:  window.Detect(env, runner),
		displays: display.Detect(env, runner),
	}

	logging.WithComponent("main").WithFields(map[string]any{
		"command":  cmd.Name(),
		"version":  Version,
		"window":   current.locator.Name(),
		"displays": current.displays.Name(),
	}).Info("envdiag started")
	return nil
}

func (a *app) sources(fallback *geometry.Geometry) report.Sources {
	return report.Sources{
		Locator:   a.locator,
		Displays:  a.displays,
		Env:       a.env,
		Runner:    a.runner,
		Shell:     a.cfg.Shell,
		ExtraVars: a.cfg.ExtraVars,
		Fallback:  fallback,
		Log:       logging.Default(),
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runInteractive(cmd *cobra.Command, args []string) {
	log := logging.WithComponent("main")
	ctx, cancel := signalContext()
	defer cancel()

	opts := tui.Options{
		Locator: current.locator,
		Collect: func(ctx context.Context, fallback *geometry.Geometry) string {
			return report.Text(report.Collect(ctx, current.sources(fallback)))
		},
		Log:     logging.Default(),
		Timeout: current.cfg.CommandTimeout,
	}
	if err := tui.Run(ctx, opts); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Errorf("TUI error: %v", err)
		os.Exit(1)
	}
	log.Info("envdiag exited")
}

func runReport(cmd *cobra.Command, args []string) {
	raw, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	log := logging.WithComponent("main").WithField("format", string(format))
	r := report.Collect(ctx, current.sources(terminalFallback()))
	if err := report.Write(os.Stdout, r, format, terminalWidth()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Errorf("write report: %v", err)
		os.Exit(1)
	}
	log.Info("report written")
}

func runDisplays(cmd *cobra.Command, args []string) {
	ctx, cancel := signalContext()
	defer cancel()

	section := report.ScreenSection{Source: current.displays.Name()}
	monitors, err := current.displays.Monitors(ctx)
	section.Monitors = monitors
	if err != nil {
		section.Error = err.Error()
		logging.WithComponent("main").Warnf("enumerate displays: %v", err)
	}
	fmt.Print(report.ScreensText(section))
	if err != nil {
		os.Exit(1)
	}
}

func runLogs(cmd *cobra.Command, args []string) {
	follow, _ := cmd.Flags().GetBool("follow")
	clearLogs, _ := cmd.Flags().GetBool("clear")

	path := logging.Default().LogPath()
	if path == "" {
		fmt.Println("Logging to stderr, no log file")
		return
	}

	if clearLogs {
		logging.Default().Close()
		os.Remove(path)
		for _, p := range logging.Backups(path) {
			os.Remove(p)
		}
		fmt.Println("Logs cleared")
		return
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Log file not found: %s\n", path)
		return
	}

	if follow {
		tailCmd := exec.Command("tail", "-f", path)
		tailCmd.Stdout = os.Stdout
		tailCmd.Stderr = os.Stderr
		tailCmd.Run()
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading log: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}

// terminalFallback is the terminal size in cells, when stdout is a terminal
func terminalFallback() *geometry.Geometry {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return nil
	}
	g := geometry.Cells(cols, rows)
	return &g
}

func terminalWidth() int {
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return cols
	}
	return 0
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/logging"
)

// cli carries state shared by the subcommands.
type cli struct {
	v          *viper.Viper
	configFile string
	settings   *config.Settings
	closeLog   func() error
}

func newRootCommand() *cobra.Command {
	c := &cli{v: config.New()}

	rootCmd := &cobra.Command{
		Use:           "mudra",
		Short:         "Finger-count gestures to key presses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initialize()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.closeLog != nil {
				return c.closeLog()
			}
			return nil
		},
	}

	if err := setupFlags(rootCmd, c); err != nil {
		fmt.Fprintf(os.Stderr, "error setting up flags: %v\n", err)
		os.Exit(1)
	}

	runCmd := runCommand(c)
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())

	rootCmd.AddCommand(
		runCmd,
		detectCommand(c),
		bindingsCommand(c),
		sessionsCommand(c),
	)
	return rootCmd
}

// setupFlags defines the global flags and binds them to their config keys.
func setupFlags(rootCmd *cobra.Command, c *cli) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configFile, "config", "c", "", "Path to config.yaml")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.Int("camera", 0, "Capture device index")
	flags.String("mode", "level", "Key press mode: level repeats while held, edge presses on change")
	flags.String("keyboard", "robotgo", "Key injection backend (robotgo, plugin, none)")
	flags.Bool("window", true, "Show the annotated camera window")
	flags.String("listen", ":8080", "Dashboard listen address")

	bindings := map[string]string{
		"log.level":        "log-level",
		"camera.device":    "camera",
		"action.mode":      "mode",
		"keyboard.backend": "keyboard",
		"display.enabled":  "window",
		"server.listen":    "listen",
	}
	for key, name := range bindings {
		if err := c.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

// initialize loads settings and starts logging before any subcommand runs.
func (c *cli) initialize() error {
	settings, err := config.Load(c.v, c.configFile)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(settings.Log.Level)
	if err != nil {
		return err
	}

	closeLog, err := logging.Init(logging.Options{
		Level:      level,
		Path:       settings.Log.Path,
		Console:    os.Stderr,
		MaxSizeMB:  settings.Log.MaxSize,
		MaxBackups: settings.Log.MaxBackups,
		MaxAgeDays: settings.Log.MaxAge,
	})
	if err != nil {
		return err
	}

	c.settings = settings
	c.closeLog = closeLog
	return nil
}

// newApp builds the application from the loaded settings.
func (c *cli) newApp() (*app.App, error) {
	return app.New(app.Options{
		Settings:  c.settings,
		StaticDir: findWebDir(),
	})
}

// findWebDir searches for the dashboard assets in "web", "../web" and
// ~/.mudra/web. It returns "" when none exists.
func findWebDir() string {
	for _, p := range []string{"web", "../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeWebDir := filepath.Join(config.DataDir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}

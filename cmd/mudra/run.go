package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/tray"
)

type runOptions struct {
	tray   bool
	detect bool
}

func runCommand(c *cli) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the dashboard and tray, starting sessions on request",
		Long: "Start the HTTP dashboard and the system tray. Detection sessions are " +
			"started from the tray, the dashboard or with --detect.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.tray, "tray", true, "Show the system tray menu")
	cmd.Flags().BoolVar(&opts.detect, "detect", false, "Start a detection session immediately")
	return cmd
}

func (c *cli) run(parent context.Context, opts *runOptions) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.ForService("main")

	a, err := c.newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	serveErr := make(chan error, 1)
	go func() { serveErr <- a.Serve(ctx) }()

	if t := c.startSessions(a, opts, stop, logger); t != nil {
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		t.Run()
		stop()
	} else {
		<-ctx.Done()
	}

	logger.Info("shutting down")
	a.Launcher().StopActive()
	return <-serveErr
}

// startSessions registers the tray, if enabled, and then honors --detect so
// the tray observes the first session. It returns nil without a tray.
func (c *cli) startSessions(a *app.App, opts *runOptions, stop func(), logger *slog.Logger) *tray.Tray {
	var t *tray.Tray
	if opts.tray {
		t = c.newTray(a, stop, logger)
	}

	if opts.detect {
		if err := a.Launcher().Detect(); err != nil {
			logger.Warn("cannot start detection", "error", err)
		}
	}
	return t
}

func (c *cli) newTray(a *app.App, stop func(), logger *slog.Logger) *tray.Tray {
	t := tray.New(a.Launcher())
	a.AddObserver(t)
	t.OnDashboard(func() {
		if err := openBrowser(dashboardURL(c.settings.Server.Listen)); err != nil {
			logger.Warn("cannot open dashboard", "error", err)
		}
	})
	t.OnError(func(err error) {
		if errors.Is(err, session.ErrSessionActive) {
			logger.Info("detection already running")
			return
		}
		logger.Warn("cannot start detection", "error", err)
	})
	t.OnQuit(stop)
	return t
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(listen string) string {
	host := listen
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	host = strings.Replace(host, "0.0.0.0", "localhost", 1)
	return "http://" + host
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	slog.Debug("opening browser", "url", url)
	return cmd.Start()
}

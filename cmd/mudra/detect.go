package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/capture"
)

func detectCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Run one detection session in the foreground",
		Long: "Open the camera and show the annotated window, pressing keys for " +
			"finger-count gestures until the quit key is pressed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.detect(cmd)
		},
	}
}

func (c *cli) detect(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := c.newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sum, err := a.RunSession(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "session %s: %d cycles, stopped (%s)\n", sum.ID, sum.Cycles, sum.Reason)

	// A camera that stops delivering frames ends the session normally.
	if errors.Is(err, capture.ErrFrameRead) {
		return nil
	}
	return err
}

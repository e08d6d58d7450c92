// Package cmd implements the displayd command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dashpi/displayd/app"
	"github.com/dashpi/displayd/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "displayd",
	Short: "MQTT display power control daemon",
	Long: `displayd controls the power state of the dashboard display.

Without a subcommand it runs in listener mode: it holds a session
against the MQTT broker, executes on/off/status commands and republishes
the observed state. The on, off, status and schedule subcommands drive
the display locally without a broker.`,
	RunE:          listen,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.json", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// ExitCode maps an Execute error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func listen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

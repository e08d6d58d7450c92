package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashpi/displayd/core/command"
	"github.com/dashpi/displayd/core/display"
	"github.com/dashpi/displayd/infra/backend"
	"github.com/dashpi/displayd/infra/exec"
	"github.com/dashpi/displayd/infra/logger"
)

// exitUnknown is the status subcommand exit code when the display state
// cannot be determined.
const exitUnknown = 3

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the display on",
	RunE:  func(cmd *cobra.Command, args []string) error { return setPower(cmd.Context(), true) },
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the display off",
	RunE:  func(cmd *cobra.Command, args []string) error { return setPower(cmd.Context(), false) },
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the observed display state",
	RunE:  readPower,
}

func init() {
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(statusCmd)
}

func newController() (*display.Controller, error) {
	be, err := backend.Probe(exec.NewRunner(), logger.New("backend"))
	if err != nil {
		return nil, err
	}
	return display.NewController(be), nil
}

func setPower(ctx context.Context, on bool) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, command.DefaultTimeout)
	defer cancel()
	if err := ctrl.SetPower(ctx, on); err != nil {
		return err
	}
	fmt.Printf("display turned %s\n", display.StateFor(on))
	return nil
}

func readPower(cmd *cobra.Command, args []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), command.DefaultTimeout)
	defer cancel()
	state, err := ctrl.ReadPower(ctx)
	if err != nil {
		state = display.StateUnknown
	}
	fmt.Println(state)
	if state == display.StateUnknown {
		// Distinguishable exit for scripting around an undetermined state.
		cmd.SilenceErrors = true
		return &exitError{code: exitUnknown}
	}
	return nil
}

// exitError carries a specific process exit code through cobra.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }

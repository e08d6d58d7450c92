package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashpi/displayd/core/schedule"
	"github.com/dashpi/displayd/infra/logger"
)

var (
	scheduleOnTime   string
	scheduleOffTime  string
	scheduleInterval int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Keep the display on during a daily window",
	Long: `schedule re-evaluates the on/off window on a fixed interval and
applies the state through the display backend when it changes. The
window may wrap past midnight (off-time earlier than on-time). No broker
session is held in this mode.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleOnTime, "on-time", "07:00", "daily on time (HH:MM)")
	scheduleCmd.Flags().StringVar(&scheduleOffTime, "off-time", "22:00", "daily off time (HH:MM)")
	scheduleCmd.Flags().IntVar(&scheduleInterval, "interval", 60, "poll interval in seconds")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	onTime, err := schedule.ParseTimeOfDay(scheduleOnTime)
	if err != nil {
		return err
	}
	offTime, err := schedule.ParseTimeOfDay(scheduleOffTime)
	if err != nil {
		return err
	}
	if scheduleInterval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	ctrl, err := newController()
	if err != nil {
		return err
	}
	runner := schedule.NewRunner(
		ctrl,
		schedule.Window{On: onTime, Off: offTime},
		time.Duration(scheduleInterval)*time.Second,
		logger.New("schedule"),
		nil,
	)
	return runner.Run(ctx)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashpi/displayd/config"
	"github.com/dashpi/displayd/infra/discovery"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Publish Home Assistant discovery documents and exit",
	Long: `discover publishes the retained switch and button entity documents
that let Home Assistant auto-create UI entities bound to the fixed
display topics. Run it once after setting up the broker; the listener
does not need to be running.`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := discovery.Publish(cfg.MQTT); err != nil {
		return err
	}
	fmt.Printf("published discovery for switch + button (retained)\n- %s\n- %s\n",
		discovery.SwitchConfigTopic, discovery.ButtonConfigTopic)
	return nil
}

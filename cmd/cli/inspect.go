package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/linkshortener/cmd"
	"github.com/axellelanca/linkshortener/internal/shortid"
)

// InspectCmd decodes a hash offline, without touching the store.
var InspectCmd = &cobra.Command{
	Use:   "inspect [hash]",
	Short: "Decode the counter value and jitter a hash was minted from",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		generator, err := shortid.New(nil, shortid.WithJitter(cmd.Cfg.Generator.JitterMin, cmd.Cfg.Generator.JitterMax))
		if err != nil {
			return err
		}
		counter, jitter, err := generator.Decode(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "Counter: %d\nJitter: %d\n", counter, jitter)
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(InspectCmd)
}

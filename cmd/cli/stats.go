package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/linkshortener/cmd"
	customerrors "github.com/axellelanca/linkshortener/internal/errors"
)

// StatsCmd représente la commande 'stats'
var StatsCmd = &cobra.Command{
	Use:   "stats [hash]",
	Short: "Get statistics for a short URL",
	Long:  `Resolve a hash without counting a click and print its long URL and click count.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(c *cobra.Command, args []string) error {
	hash := args[0]

	app, err := cmd.NewApp(c.Context(), cmd.Cfg, cmd.Logger)
	if err != nil {
		return err
	}
	defer app.Close()

	link, err := app.LinkService.Resolve(c.Context(), hash, false)
	if errors.Is(err, customerrors.ErrNotFound) {
		return fmt.Errorf("hash '%s' not found", hash)
	}
	if err != nil {
		return fmt.Errorf("error retrieving statistics: %w", err)
	}

	out := c.OutOrStdout()
	fmt.Fprintf(out, "Statistiques pour le hash: %s\n", link.Hash)
	fmt.Fprintf(out, "URL longue: %s\n", link.LongURL)
	fmt.Fprintf(out, "Total de clics: %d\n", link.Clicks)
	return nil
}

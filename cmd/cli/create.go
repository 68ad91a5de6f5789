package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/axellelanca/linkshortener/cmd"
	customerrors "github.com/axellelanca/linkshortener/internal/errors"
)

var longURLFlag string

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crée une URL courte à partir d'une URL longue.",
	Long: `Cette commande raccourcit une URL longue et affiche le hash associé.
Une URL déjà raccourcie renvoie toujours le même hash.

Exemple:
  linkshortener create --url="https://www.google.com/search?q=go+lang"`,
	RunE: func(c *cobra.Command, args []string) error {
		if _, err := url.ParseRequestURI(longURLFlag); err != nil {
			return fmt.Errorf("%w: %v", customerrors.ErrInvalidURL, err)
		}

		app, err := cmd.NewApp(c.Context(), cmd.Cfg, cmd.Logger)
		if err != nil {
			return err
		}
		defer app.Close()

		link, err := app.LinkService.Shorten(c.Context(), longURLFlag)
		if err != nil {
			return fmt.Errorf("failed to create short link: %w", err)
		}

		fmt.Fprintf(c.OutOrStdout(), "Hash: %s\n", link.Hash)
		fmt.Fprintf(c.OutOrStdout(), "URL complète: %s/%s\n", cmd.Cfg.Server.BaseURL, link.Hash)
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVar(&longURLFlag, "url", "", "The long URL to shorten")
	CreateCmd.MarkFlagRequired("url")
	cmd.RootCmd.AddCommand(CreateCmd)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Short:   "List offer categories",
		Example: `  prc categories`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			categories, err := c.ListCategories(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(categories)
			}

			return printCategoriesTable(categories)
		},
	}
}

func marketplacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "marketplaces",
		Short:   "Show marketplace connectivity status",
		Example: `  prc marketplaces`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			statuses, err := c.MarketplacesStatus(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(statuses)
			}

			return printStatusTable(statuses)
		},
	}
}

func authCmd() *cobra.Command {
	authRoot := &cobra.Command{
		Use:   "auth",
		Short: "Manage marketplace authorization",
	}

	urlCmd := &cobra.Command{
		Use:     "url",
		Short:   "Print the Mercado Livre consent URL",
		Example: `  prc auth url`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			url, err := c.MeliAuthURL(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		},
	}

	loginCmd := &cobra.Command{
		Use:     "login <code>",
		Short:   "Exchange an authorization code for tokens",
		Example: `  prc auth login TG-abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.MeliAuthorize(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Mercado Livre authorized.")
			return nil
		},
	}

	authRoot.AddCommand(urlCmd, loginCmd)
	return authRoot
}

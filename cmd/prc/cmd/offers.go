package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/mfreitas/promo-radar/internal/api/client"
)

func offersCmd() *cobra.Command {
	offersRoot := &cobra.Command{
		Use:   "offers",
		Short: "Search discounted offers",
		Long: "Search discounted offers aggregated from eBay and Mercado Livre,\n" +
			"sorted by discount percentage.",
	}

	offersRoot.AddCommand(
		offersSearchCmd(),
		offersFeaturedCmd(),
	)

	return offersRoot
}

func offersSearchCmd() *cobra.Command {
	var (
		page        int
		perPage     int
		category    string
		minDiscount float64
		priceMin    float64
		priceMax    float64
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search offers with optional filters",
		Long: "Search offers across marketplaces. Without a query, browses a\n" +
			"rotating set of popular product terms.",
		Example: `  # Browse the best discounts across marketplaces
  prc offers search

  # Search a specific product
  prc offers search "iphone 14"

  # Filter by category and minimum discount
  prc offers search notebook --category MLB1648 --min-discount 30

  # Constrain the price range with pagination
  prc offers search --price-min 100 --price-max 2500 --per-page 10 --page 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			c := newClient()
			result, err := c.SearchOffers(context.Background(), &apiclient.SearchOffersParams{
				Query:       query,
				Page:        page,
				PerPage:     perPage,
				CategoryID:  category,
				MinDiscount: minDiscount,
				PriceMin:    priceMin,
				PriceMax:    priceMax,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(result)
			}

			if result.Warning != "" {
				fmt.Println("Warning:", result.Warning)
				fmt.Println()
			}

			if len(result.Offers) == 0 {
				fmt.Println("No offers found.")
				return nil
			}

			fmt.Printf("Page %d, showing %d offers\n\n", result.Page, len(result.Offers))
			return printOffersTable(result.Offers)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "offers per page")
	cmd.Flags().StringVar(&category, "category", "", "category filter")
	cmd.Flags().Float64Var(&minDiscount, "min-discount", 0, "minimum discount percentage")
	cmd.Flags().Float64Var(&priceMin, "price-min", 0, "minimum price")
	cmd.Flags().Float64Var(&priceMax, "price-max", 0, "maximum price")

	return cmd
}

func offersFeaturedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "featured",
		Short:   "Show the highest-discount offers",
		Example: `  prc offers featured --limit 6`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			result, err := c.FeaturedOffers(context.Background(), limit)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(result)
			}

			if result.Warning != "" {
				fmt.Println("Warning:", result.Warning)
				fmt.Println()
			}

			if len(result.Offers) == 0 {
				fmt.Println("No offers found.")
				return nil
			}

			return printOffersTable(result.Offers)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 12, "number of offers")

	return cmd
}

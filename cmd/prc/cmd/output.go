package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	apiclient "github.com/mfreitas/promo-radar/internal/api/client"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printOffersTable(offers []domain.Offer) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("MARKETPLACE\tNAME\tPRICE\tWAS\tDISCOUNT\tSHIPPING\n")
	for i := range offers {
		o := &offers[i]
		shipping := "-"
		if o.FreeShipping {
			shipping = "free"
		}
		tw.writef("%s\t%s\t%s %.2f\t%.2f\t%.1f%%\t%s\n",
			o.Marketplace,
			truncate(o.Name, 45),
			o.Currency,
			o.CurrentPrice,
			o.OriginalPrice,
			o.DiscountPercent,
			shipping,
		)
	}
	return tw.finish()
}

func printCategoriesTable(categories []domain.Category) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\n")
	for i := range categories {
		tw.writef("%s\t%s\n", categories[i].ID, categories[i].Name)
	}
	return tw.finish()
}

func printStatusTable(statuses []apiclient.MarketplaceStatus) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("MARKETPLACE\tAUTHENTICATED\n")
	for i := range statuses {
		tw.writef("%s\t%v\n", statuses[i].Marketplace, statuses[i].Authenticated)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

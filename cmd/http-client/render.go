package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gold-catalog/internal/browse"
	"gold-catalog/internal/model"
	"gold-catalog/internal/ui"
)

func renderProducts(w io.Writer, products []model.PricedProduct) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products match.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPRICE\tRATING\tCOLOURS")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t$%s USD\t%s\t%s\n",
			p.Name, p.Price.StringFixed(2), ui.NewRating(p.PopularityScore).Stars(), variantLabels(p.Images))
	}
	_ = tw.Flush()
}

func renderWindow(w io.Writer, b *browse.Browser) {
	snap := b.Snapshot()
	visible := b.Visible()
	renderProducts(w, visible)
	if len(snap.Products) > len(visible) {
		fmt.Fprintf(w, "(%d of %d, < and > to scroll)\n", len(visible), len(snap.Products))
	}
}

func variantLabels(images map[string]string) string {
	variants := ui.Variants(images)
	labels := make([]string, len(variants))
	for i, v := range variants {
		labels[i] = v.Label
	}
	return strings.Join(labels, ", ")
}

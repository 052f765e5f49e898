package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/grocerycompare/backend/internal/domain"
)

// RenderQuotes writes one table per store, cheapest store first as received
func RenderQuotes(w io.Writer, quotes []domain.StoreQuote) {
	if len(quotes) == 0 {
		fmt.Fprintln(w, "No stores returned a quote.")
		return
	}

	for _, q := range quotes {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle("Store: " + string(q.Store))
		t.AppendHeader(table.Row{"Qty", "Requested", "Matched", "Each"})

		for _, line := range q.Lines {
			t.AppendRow(table.Row{
				strconv.FormatFloat(line.Quantity, 'f', -1, 64),
				line.Requested,
				line.Matched,
				pounds(line.UnitPrice),
			})
		}

		t.AppendFooter(table.Row{"", "", "Subtotal", pounds(q.Subtotal)})
		t.AppendFooter(table.Row{"", "", "Delivery", pounds(q.DeliveryFee)})
		t.AppendFooter(table.Row{"", "", "Total", pounds(q.TotalPrice)})

		t.SetStyle(table.StyleRounded)
		t.Render()
		fmt.Fprintln(w)
	}
}

func pounds(v float64) string {
	return fmt.Sprintf("£%.2f", v)
}

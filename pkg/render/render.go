// Package render turns view-models into output. The Renderer interface
// decouples view construction from the display target; the terminal
// implementation fully replaces the screen content per render, so nothing
// from a previous view survives a navigation.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/storefront/pkg/views"
)

type Renderer interface {
	Render(v views.View)
}

// Terminal writes each view as a full screen of text.
type Terminal struct {
	w io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Render(v views.View) {
	fmt.Fprintln(t.w, strings.Repeat("=", 60))
	if v.Title != "" {
		fmt.Fprintf(t.w, "%s\n\n", v.Title)
	}

	switch v.Kind {
	case views.KindProducts:
		t.renderCards(v.Cards)
	case views.KindProductDetail:
		t.renderDetail(v.Detail)
	case views.KindCart:
		t.renderCart(v.Cart)
	case views.KindOrders:
		t.renderOrders(v.Orders)
	case views.KindLogin, views.KindRegister:
		t.renderForm(v.Form)
	case views.KindNotice:
		t.renderNotice(v.Notice, v.IsError)
	}
}

func (t *Terminal) renderCards(cards []views.ProductCard) {
	for _, c := range cards {
		fmt.Fprintf(t.w, "  %s  %s\n", c.Name, c.Price)
		fmt.Fprintf(t.w, "    image:   %s\n", c.ImageURL)
		fmt.Fprintf(t.w, "    details: %s   add: product %d\n\n", c.DetailFragment, c.ProductID)
	}
}

func (t *Terminal) renderDetail(d *views.ProductDetail) {
	fmt.Fprintf(t.w, "  %s\n", d.Price)
	fmt.Fprintf(t.w, "  image: %s\n\n", d.ImageURL)
	fmt.Fprintf(t.w, "%s\n\n", d.Description)
	fmt.Fprintf(t.w, "  add: product %d   back: %s\n", d.ProductID, d.BackFragment)
}

func (t *Terminal) renderCart(c *views.CartTable) {
	if c.Empty {
		t.renderNotice("Your cart is empty.", false)
	}
	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Product\tPrice\tQty\tSubtotal")
	for _, row := range c.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", row.Name, row.Price, row.Quantity, row.Subtotal)
	}
	tw.Flush()
	fmt.Fprintf(t.w, "\nTotal: %s\n", c.Total)
	if c.CheckoutEnabled {
		fmt.Fprintln(t.w, "[checkout]")
	} else {
		fmt.Fprintln(t.w, "[checkout disabled]")
	}
}

func (t *Terminal) renderOrders(orders []views.OrderRow) {
	if len(orders) == 0 {
		t.renderNotice("No past orders yet.", false)
	}
	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Order\tDate\tTotal\tStatus")
	for _, o := range orders {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\n", o.OrderID, o.Date, o.Total, o.Status)
	}
	tw.Flush()
}

func (t *Terminal) renderForm(f *views.Form) {
	for _, field := range f.Fields {
		marker := ""
		if field.Secret {
			marker = " (hidden)"
		}
		fmt.Fprintf(t.w, "  %s%s\n", field.Label, marker)
	}
	fmt.Fprintf(t.w, "\n  [%s]\n", f.Submit)
	if f.Footer != "" {
		fmt.Fprintf(t.w, "  %s\n", f.Footer)
	}
}

func (t *Terminal) renderNotice(message string, isError bool) {
	if isError {
		fmt.Fprintf(t.w, "  ! %s\n", message)
		return
	}
	fmt.Fprintf(t.w, "  %s\n", message)
}

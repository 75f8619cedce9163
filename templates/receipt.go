// Package templates renders the HTML fragments returned to HTMX requests.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"itbudget/budget"
	"itbudget/submission"
)

// Receipt renders the confirmation fragment shown after a submit.
func Receipt(r *submission.Receipt) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="receipt" id="submission-receipt">`)
		fmt.Fprintf(&b, `<h2>Budget request submitted</h2><p class="receipt-ref">Reference: <strong>%s</strong></p>`,
			templ.EscapeString(r.ReferenceID))
		fmt.Fprintf(&b, `<p class="receipt-message">%s</p>`, templ.EscapeString(r.Message))

		b.WriteString(`<table class="receipt-totals"><tbody>`)
		row := func(label, value string) {
			fmt.Fprintf(&b, `<tr><th>%s</th><td>%s</td></tr>`, templ.EscapeString(label), templ.EscapeString(value))
		}
		row("Operational", budget.FormatAmount(r.Currency, r.Totals.Operational))
		row("Support", budget.FormatAmount(r.Currency, r.Totals.Support))
		row("Implementation", budget.FormatAmount(r.Currency, r.Totals.Implementation))
		row("Grand total", budget.FormatAmount(r.Currency, r.Totals.Grand))
		b.WriteString(`</tbody></table>`)

		if len(r.Totals.Warnings) > 0 {
			b.WriteString(`<ul class="receipt-warnings">`)
			for _, w := range r.Totals.Warnings {
				fmt.Fprintf(&b, `<li>%s</li>`, templ.EscapeString(w))
			}
			b.WriteString(`</ul>`)
		}

		fmt.Fprintf(&b, `<a class="btn" href="/submit/receipt.pdf?ref=%s">Download PDF</a></div>`,
			templ.EscapeString(r.ReferenceID))

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// DraftSaved renders the inline acknowledgement for a draft save.
func DraftSaved(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<span class="draft-status">`+templ.EscapeString(message)+`</span>`)
		return err
	})
}

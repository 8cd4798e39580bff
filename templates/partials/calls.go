package partials

import (
	"fmt"
	"strings"

	"sales_call_app_go/models"
	"sales_call_app_go/templates/components"

	"github.com/a-h/templ"
)

// CallPanel renders the Make Calls tab body for the selected customer
func CallPanel(selected *models.Customer, message, csrfToken string) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<section id="call-panel">`)
		b.WriteString(components.AlertHTML(components.AlertSuccess, message))

		if selected == nil {
			b.WriteString(components.AlertHTML(components.AlertInfo, "Select a customer from the Customer List tab to make a call"))
			b.WriteString(`</section>`)
			return
		}

		c := selected
		fmt.Fprintf(b, `<div class="call-card"><h2>Calling: %s</h2><div class="call-details">`, e(c.Name))
		fmt.Fprintf(b, `<p><strong>Business:</strong> %s</p><p><strong>Phone:</strong> %s</p>`, e(orDash(c.Business)), e(orDash(c.Phone)))
		fmt.Fprintf(b, `<p><strong>Potential:</strong> <span class="%s">%s</span></p>`, potentialClass(c.Potential), e(c.Potential))
		fmt.Fprintf(b, `<p><strong>Last Contact:</strong> %s</p>`, e(orDash(c.LastContact)))
		fmt.Fprintf(b, `<p><strong>Status:</strong> <span class="badge %s">%s</span></p></div></div>`, e(statusClass(c.Status)), e(c.Status))

		b.WriteString(`<form method="post" action="/calls/log" hx-post="/calls/log" hx-target="#call-panel" hx-swap="outerHTML">`)
		b.WriteString(csrfField(csrfToken))
		fmt.Fprintf(b, `<input type="hidden" name="customer_id" value="%d">`, c.ID)
		b.WriteString(`<label>Call Notes<textarea name="notes" placeholder="Enter details about the conversation..."></textarea></label>`)
		outcomeRadios(b, "call")
		b.WriteString(`<div id="dial-status" aria-live="polite"></div><div class="call-actions">`)
		b.WriteString(`<button type="submit" class="btn" formaction="/calls/dial" hx-post="/calls/dial" hx-target="#dial-status" hx-swap="innerHTML" hx-disabled-elt="this">Start Call</button>`)
		b.WriteString(`<button type="submit" class="btn btn-primary">Log Call</button>`)
		b.WriteString(`<button type="submit" class="btn btn-secondary" formaction="/calls/cancel" hx-post="/calls/cancel" hx-target="#call-panel" hx-swap="outerHTML">Cancel</button>`)
		b.WriteString(`</div></form></section>`)
	})
}

// DialStatus renders the result of a simulated dial
func DialStatus(kind, message string) templ.Component {
	return components.Alert(kind, message)
}

func outcomeRadios(b *strings.Builder, prefix string) {
	b.WriteString(`<fieldset class="outcomes"><legend>Call Outcome</legend>`)
	for i, outcome := range models.CallOutcomes() {
		checked := ""
		if i == 0 {
			checked = " checked"
		}
		id := fmt.Sprintf("%s-outcome-%d", prefix, i)
		fmt.Fprintf(b, `<label for="%s"><input type="radio" id="%s" name="outcome" value="%s"%s> %s</label>`, id, id, e(outcome), checked, e(outcome))
	}
	b.WriteString(`</fieldset>`)
}

package partials

import (
	"fmt"
	"strings"

	"sales_call_app_go/models"
	"sales_call_app_go/templates/components"

	"github.com/a-h/templ"
)

// HistorySearch renders the phone lookup form
func HistorySearch(phone string) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<form class="history-search" method="get" action="/customers/history" hx-get="/customers/history" hx-target="#history-result" hx-select="#history-result" hx-swap="outerHTML" hx-push-url="true">`)
		fmt.Fprintf(b, `<label>Enter customer phone number<input type="search" name="phone" value="%s" placeholder="e.g., 010 123 456"></label>`, e(phone))
		b.WriteString(`<button type="submit" class="btn">Search History</button></form>`)
	})
}

// HistoryResult renders the customer found by the lookup with their calls and a log form
func HistoryResult(customer *models.Customer, calls []models.CallLogEntry, searched bool, message, csrfToken string) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<section id="history-result">`)
		if customer == nil {
			if searched {
				b.WriteString(components.AlertHTML(components.AlertWarning, "No customer found with that phone number."))
			} else {
				b.WriteString(components.AlertHTML(components.AlertInfo, "Enter a phone number to search for call history"))
			}
			b.WriteString(`</section>`)
			return
		}

		c := customer
		b.WriteString(components.AlertHTML(components.AlertSuccess, "Found customer: "+c.Name))
		b.WriteString(components.AlertHTML(components.AlertSuccess, message))
		fmt.Fprintf(b, `<div class="customer-card"><div class="customer-main"><strong>%s</strong><span>Business: %s</span><span>Phone: %s</span></div>`,
			e(c.Name), e(orDash(c.Business)), e(orDash(c.Phone)))
		fmt.Fprintf(b, `<div class="customer-meta"><span class="%s">Potential: %s</span><span>Last Contact: %s</span><span class="badge %s">%s</span></div></div>`,
			potentialClass(c.Potential), e(c.Potential), e(orDash(c.LastContact)), e(statusClass(c.Status)), e(c.Status))

		b.WriteString(`<h3>Call History</h3>`)
		writeCallList(b, calls, "No call history found for this customer.")

		b.WriteString(`<h3>Log New Call</h3>`)
		fmt.Fprintf(b, `<form method="post" action="/customers/%d/calls" hx-post="/customers/%d/calls" hx-target="#history-result" hx-swap="outerHTML">`, c.ID, c.ID)
		b.WriteString(csrfField(csrfToken))
		outcomeRadios(b, "history")
		b.WriteString(`<label>Call Notes<textarea name="notes" placeholder="Enter details about the conversation..."></textarea></label>`)
		b.WriteString(`<button type="submit" class="btn btn-primary">Save Call Log</button></form></section>`)
	})
}

func writeCallList(b *strings.Builder, calls []models.CallLogEntry, empty string) {
	if len(calls) == 0 {
		b.WriteString(components.AlertHTML(components.AlertInfo, empty))
		return
	}
	b.WriteString(`<ul class="call-log">`)
	for _, call := range calls {
		fmt.Fprintf(b, `<li class="call-entry"><strong>%s</strong> - %s <span class="%s">(%s)</span><br><em>%s</em></li>`,
			e(call.Customer), e(call.Date), e(statusClass(call.Outcome)), e(call.Outcome), e(call.DisplayNotes()))
	}
	b.WriteString(`</ul>`)
}

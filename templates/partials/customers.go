package partials

import (
	"fmt"
	"strings"

	"sales_call_app_go/models"
	"sales_call_app_go/services"
	"sales_call_app_go/templates/components"

	"github.com/a-h/templ"
)

// CustomerFilters renders the directory search controls. Changes re-query the list via htmx.
func CustomerFilters(filter services.CustomerFilter, sortKey string) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<form class="filters" method="get" action="/customers" hx-get="/customers" hx-target="#customer-list" hx-select="#customer-list" hx-swap="outerHTML" hx-trigger="input changed delay:300ms from:input, change from:select" hx-push-url="true">`)
		fmt.Fprintf(b, `<label>Search by name or business<input type="search" name="q" value="%s"></label>`, e(filter.Search))

		b.WriteString(`<label>Filter by status<select name="status">`)
		options(b, services.StatusFilterOptions(), orAll(filter.Status))
		b.WriteString(`</select></label>`)

		b.WriteString(`<label>Filter by potential<select name="potential">`)
		options(b, services.PotentialFilterLabels(), orAll(filter.Potential))
		b.WriteString(`</select></label>`)

		b.WriteString(`<label>Sort by<select name="sort">`)
		options(b, services.SortKeys(), sortKey)
		b.WriteString(`</select></label><noscript><button type="submit" class="btn">Apply</button></noscript></form>`)
	})
}

func orAll(v string) string {
	if v == "" {
		return services.FilterAll
	}
	return v
}

// CustomerList renders the filtered directory
func CustomerList(customers []models.Customer, csrfToken string) templ.Component {
	return render(func(b *strings.Builder) {
		fmt.Fprintf(b, `<section id="customer-list" hx-get="/customers" hx-trigger="customer-added from:body" hx-include=".filters" hx-select="#customer-list" hx-swap="outerHTML"><h2>Customers (%d)</h2>`, len(customers))
		if len(customers) == 0 {
			b.WriteString(components.AlertHTML(components.AlertInfo, "No customers match your search criteria."))
			b.WriteString(`</section>`)
			return
		}

		for _, c := range customers {
			fmt.Fprintf(b, `<article class="customer-card" id="customer-%d">`, c.ID)
			fmt.Fprintf(b, `<div class="customer-main"><strong>%s</strong><em>%s</em><span>Phone: %s</span>`, e(c.Name), e(orDash(c.Business)), e(orDash(c.Phone)))
			if c.Email != "" {
				fmt.Fprintf(b, `<span>Email: %s</span>`, e(c.Email))
			}
			b.WriteString(`</div>`)
			fmt.Fprintf(b, `<div class="customer-meta"><span class="%s">Potential: %s</span><span>Last contact: %s</span><span>Calls: %d</span></div>`,
				potentialClass(c.Potential), e(c.Potential), e(orDash(c.LastContact)), c.CallCount)
			fmt.Fprintf(b, `<span class="badge %s">%s</span>`, e(statusClass(c.Status)), e(c.Status))
			fmt.Fprintf(b, `<form method="post" action="/calls/select/%d">%s<button type="submit" class="btn">Call</button></form>`, c.ID, csrfField(csrfToken))
			fmt.Fprintf(b, `<form method="post" action="/customers/%d/history">%s<button type="submit" class="btn btn-secondary">History</button></form>`, c.ID, csrfField(csrfToken))
			b.WriteString(`</article>`)
		}
		b.WriteString(`</section>`)
	})
}

// NewCustomerForm renders the Add New Customer form
func NewCustomerForm(input services.NewCustomerInput, errMsg, successMsg, csrfToken string) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<section id="new-customer"><h2>Add New Customer</h2>`)
		b.WriteString(components.AlertHTML(components.AlertError, errMsg))
		b.WriteString(components.AlertHTML(components.AlertSuccess, successMsg))
		b.WriteString(`<form method="post" action="/customers" hx-post="/customers" hx-target="#new-customer" hx-select="#new-customer" hx-swap="outerHTML">`)
		b.WriteString(csrfField(csrfToken))

		b.WriteString(`<fieldset><legend>Basic Information</legend>`)
		textInput(b, "Full Name*", "name", input.Name, "e.g., Sok Dara")
		textInput(b, "Business Name*", "business", input.Business, "e.g., Sok Dara Grocery")
		textInput(b, "Phone Number*", "phone", input.Phone, "e.g., 010 123 456")
		textInput(b, "Email", "email", input.Email, "e.g., sokdara@email.com")
		b.WriteString(`</fieldset><fieldset><legend>Additional Details</legend>`)

		b.WriteString(`<label>Potential Level*<select name="potential">`)
		options(b, models.Potentials(), input.Potential)
		b.WriteString(`</select></label>`)
		b.WriteString(`<label>Status*<select name="status">`)
		options(b, models.CustomerStatuses(), input.Status)
		b.WriteString(`</select></label></fieldset>`)

		b.WriteString(`<button type="submit" class="btn btn-primary">Save Customer</button></form></section>`)
	})
}

func textInput(b *strings.Builder, label, name, value, placeholder string) {
	fmt.Fprintf(b, `<label>%s<input type="text" name="%s" value="%s" placeholder="%s"></label>`, e(label), name, e(value), e(placeholder))
}

// CustomerSubnav switches between the directory and the history lookup
func CustomerSubnav(active string) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<nav class="subtabs">`)
		for _, item := range []struct{ id, label, href string }{
			{"directory", "Customer Directory", "/customers"},
			{"history", "Call History Lookup", "/customers/history"},
			{"new", "Add New Customer", "/customers#new-customer"},
		} {
			class := "subtab"
			if item.id == active {
				class = "subtab subtab-active"
			}
			fmt.Fprintf(b, `<a class="%s" href="%s">%s</a>`, class, item.href, item.label)
		}
		b.WriteString(`</nav>`)
	})
}

package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"sales_call_app_go/templates/components"
	"sales_call_app_go/templates/partials"

	"github.com/a-h/templ"
)

// Login renders the RM login form
func Login(data LoginPage) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="login"><h2>Sales Call System</h2><p>Welcome! Please log in with your <strong>RM Code</strong> to continue.</p>`)
		b.WriteString(`<div id="login-error">`)
		b.WriteString(components.AlertHTML(components.AlertError, data.Error))
		b.WriteString(`</div><form method="post" action="/login" hx-post="/login" hx-target="#login-error">`)
		b.WriteString(components.CSRFField(data.CSRFToken))
		fmt.Fprintf(&b, `<label>Username<input type="text" name="username" value="%s" autocomplete="username" required></label>`, templ.EscapeString(data.Username))
		b.WriteString(`<label>RM Code<input type="password" name="rm_code" autocomplete="current-password" required></label>`)
		b.WriteString(`<button type="submit" class="btn btn-primary">Login</button></form></main>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return components.Document("Login | Sales Call System", data.CSRFToken, body)
}

// Customers renders the Customer Directory tab
func Customers(data CustomersPage) templ.Component {
	return components.Layout(data.Layout, join(
		header("Customer Relationship Management", "Manage customer contacts, track call history, and add new customers"),
		partials.CustomerSubnav("directory"),
		partials.CustomerFilters(data.Filter, data.SortKey),
		partials.CustomerList(data.Customers, data.Layout.CSRFToken),
		partials.NewCustomerForm(data.Form.Input, data.Form.Error, data.Form.Success, data.Layout.CSRFToken),
	))
}

// History renders the Call History Lookup tab
func History(data HistoryPage) templ.Component {
	return components.Layout(data.Layout, join(
		header("Call History Lookup", "Find a customer by phone number and review their calls"),
		partials.CustomerSubnav("history"),
		partials.HistorySearch(data.Phone),
		partials.HistoryResult(data.Customer, data.Calls, data.Searched, data.Message, data.Layout.CSRFToken),
	))
}

// Calls renders the Make Calls tab
func Calls(data CallsPage) templ.Component {
	return components.Layout(data.Layout, join(
		header("Make Calls", "Call the selected customer and record the outcome"),
		partials.CallPanel(data.Selected, data.Message, data.Layout.CSRFToken),
	))
}

// Performance renders the Performance tab
func Performance(data PerformancePage) templ.Component {
	return components.Layout(data.Layout, join(
		header("Performance Dashboard", "Track your calling performance and metrics"),
		partials.SummaryCards(data.Summary),
		exportLink(),
		partials.RecentCallList(data.Recent),
	))
}

func header(title, subtitle string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="call-card"><h2>%s</h2><p>%s</p></div>`, templ.EscapeString(title), templ.EscapeString(subtitle))
		return err
	})
}

func exportLink() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p><a class="btn" href="/performance/export" hx-boost="false">Download Excel report</a></p>`)
		return err
	})
}

func join(parts ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, p := range parts {
			if err := p.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

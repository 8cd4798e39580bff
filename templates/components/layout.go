package components

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"sales_call_app_go/middleware"

	"github.com/a-h/templ"
)

// FlashTarget is the element error fragments are retargeted into
const FlashTarget = "#flash"

// Top-level dashboard tabs
const (
	TabCustomers   = "customers"
	TabCalls       = "calls"
	TabPerformance = "performance"
)

// LayoutProps is the chrome shared by every dashboard page
type LayoutProps struct {
	Title     string
	Username  string
	RMCode    string
	ActiveTab string
	CSRFToken string
	Warnings  []string
}

var tabs = []struct {
	id, label, href string
}{
	{TabCustomers, "Customer List", "/customers"},
	{TabCalls, "Make Calls", "/calls"},
	{TabPerformance, "Performance", "/performance"},
}

// Document renders the HTML skeleton with the htmx script and stylesheet
func Document(title string, csrfToken string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, `<title>%s</title>`, templ.EscapeString(title))
		fmt.Fprintf(&b, `<link rel="stylesheet" href="/static/css/app.css?v=%s">`, templ.EscapeString(middleware.GetCSSVersion(ctx)))
		fmt.Fprintf(&b, `<script nonce="%s" src="https://unpkg.com/htmx.org@2.0.4"></script>`, templ.EscapeString(middleware.GetNonce(ctx)))
		fmt.Fprintf(&b, `</head><body hx-headers="%s">`, templ.EscapeString(csrfHeaders(csrfToken)))
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Layout wraps a dashboard page with the header, tabs and footer
func Layout(props LayoutProps, content templ.Component) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<header class="main-header"><div><h1>Sales Call Management System</h1><p>Efficient customer outreach and follow-up platform</p></div>`)
		fmt.Fprintf(&b, `<div class="session-info"><span>%s</span> <span>RM Code: <strong>%s</strong></span>`,
			templ.EscapeString(props.Username), templ.EscapeString(props.RMCode))
		fmt.Fprintf(&b, `<form method="post" action="/logout"><input type="hidden" name="%s" value="%s"><button type="submit" class="btn btn-secondary">Logout</button></form></div></header>`,
			middleware.CSRFFormField, templ.EscapeString(props.CSRFToken))

		b.WriteString(`<nav class="tabs">`)
		for _, t := range tabs {
			class := "tab"
			if t.id == props.ActiveTab {
				class = "tab tab-active"
			}
			fmt.Fprintf(&b, `<a class="%s" href="%s">%s</a>`, class, t.href, t.label)
		}
		b.WriteString(`</nav><main><div id="flash" aria-live="polite"></div>`)
		for _, warning := range props.Warnings {
			b.WriteString(alertHTML(AlertWarning, warning))
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, `</main><footer>Sales Call System &bull; %s</footer>`, time.Now().Format("2006-01-02 15:04"))
		return err
	})
	return Document(props.Title, props.CSRFToken, body)
}

// CSRFField renders the hidden token input for a form
func CSRFField(token string) string {
	return fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`, middleware.CSRFFormField, templ.EscapeString(token))
}

// csrfHeaders is the hx-headers value that sends the CSRF token with every htmx request
func csrfHeaders(token string) string {
	b, _ := json.Marshal(map[string]string{middleware.CSRFHeader: token})
	return string(b)
}

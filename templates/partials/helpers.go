package partials

import (
	"context"
	"fmt"
	"io"
	"strings"

	"sales_call_app_go/middleware"
	"sales_call_app_go/models"

	"github.com/a-h/templ"
)

// e escapes text for element content and quoted attribute values
func e(s string) string {
	return templ.EscapeString(s)
}

// statusClass maps a status or outcome to its badge class, e.g. "status-new-lead"
func statusClass(status string) string {
	if status == "" {
		return "status-unknown"
	}
	return "status-" + strings.ReplaceAll(strings.ToLower(status), " ", "-")
}

func potentialClass(potential string) string {
	switch potential {
	case models.PotentialHigh:
		return "potential-high"
	case models.PotentialMedium:
		return "potential-medium"
	case models.PotentialLow:
		return "potential-low"
	default:
		return "potential-unknown"
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func options(b *strings.Builder, values []string, selected string) {
	for _, v := range values {
		sel := ""
		if v == selected {
			sel = " selected"
		}
		fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, e(v), sel, e(v))
	}
}

func csrfField(token string) string {
	return fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`, middleware.CSRFFormField, e(token))
}

// render adapts a string builder function into a component
func render(build func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		build(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

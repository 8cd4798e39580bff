package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Alert kinds
const (
	AlertSuccess = "success"
	AlertError   = "error"
	AlertWarning = "warning"
	AlertInfo    = "info"
)

// Alert renders a flash message
func Alert(kind, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, alertHTML(kind, message))
		return err
	})
}

func alertHTML(kind, message string) string {
	if message == "" {
		return ""
	}
	return fmt.Sprintf(`<div class="alert alert-%s" role="alert">%s</div>`, templ.EscapeString(kind), templ.EscapeString(message))
}

// AlertHTML is Alert as a string, for embedding in larger fragments
func AlertHTML(kind, message string) string {
	return alertHTML(kind, message)
}

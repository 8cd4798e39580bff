package partials

import (
	"fmt"
	"strings"

	"sales_call_app_go/models"
	"sales_call_app_go/services"

	"github.com/a-h/templ"
)

// SummaryCards renders the status and potential counters
func SummaryCards(s services.Summary) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<section class="metrics">`)
		metricCard(b, s.Total, "Total Customers", "")
		metricCard(b, s.Completed, "Completed Calls", "")
		metricCard(b, s.Pending, "Pending Calls", "")
		metricCard(b, s.Missed, "Missed Calls", "")
		b.WriteString(`</section><h2>Potential Distribution</h2><section class="metrics">`)
		metricCard(b, s.HighPotential, "High Potential", "potential-high")
		metricCard(b, s.MediumPotential, "Medium Potential", "potential-medium")
		metricCard(b, s.LowPotential, "Low Potential", "potential-low")
		b.WriteString(`</section>`)
	})
}

func metricCard(b *strings.Builder, value int, label, class string) {
	fmt.Fprintf(b, `<div class="metric-card"><h3 class="%s">%d</h3><p>%s</p></div>`, class, value, e(label))
}

// RecentCallList renders the newest calls first
func RecentCallList(calls []models.CallLogEntry) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<section id="recent-calls"><h2>Recent Call Log</h2>`)
		writeCallList(b, calls, "No calls logged yet. Start making calls to see your activity here.")
		b.WriteString(`</section>`)
	})
}

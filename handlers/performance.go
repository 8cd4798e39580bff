package handlers

import (
	"net/http"

	"sales_call_app_go/services"
	"sales_call_app_go/templates/components"
	"sales_call_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// PerformanceHandler renders the Performance tab for the logged-in RM
func PerformanceHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, pages.Performance(pages.PerformancePage{
		Layout:  layoutProps(c, session, store, components.TabPerformance, "Performance"),
		Summary: services.Summarize(store.CustomersFor(session.RMCode)),
		Recent:  services.RecentCalls(store, session.RMCode, services.DefaultRecentCallLimit),
	}))
}

package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"sales_call_app_go/config"
	"sales_call_app_go/db"
	"sales_call_app_go/middleware"
	"sales_call_app_go/models"
	"sales_call_app_go/services"
	"sales_call_app_go/templates/components"
	"sales_call_app_go/templates/pages"
	"sales_call_app_go/templates/partials"

	"github.com/labstack/echo/v4"
)

// selectedCustomer resolves the session's Make Calls selection. A selection
// that no longer resolves is treated as none.
func selectedCustomer(store *services.RecordStore, session *models.Session) *models.Customer {
	if !session.HasSelectedCustomer() {
		return nil
	}
	customer, err := ownedCustomer(store, session, *session.SelectedCustomerID)
	if err != nil {
		return nil
	}
	return &customer
}

func renderCalls(c echo.Context, session *models.Session, store *services.RecordStore, message string) error {
	selected := selectedCustomer(store, session)
	if isHTMX(c) && hxTarget(c) == "call-panel" {
		return render(c, http.StatusOK, partials.CallPanel(selected, message, middleware.GetCSRFToken(c)))
	}
	return render(c, http.StatusOK, pages.Calls(pages.CallsPage{
		Layout:   layoutProps(c, session, store, components.TabCalls, "Make Calls"),
		Selected: selected,
		Message:  message,
	}))
}

// CallsHandler renders the Make Calls tab
func CallsHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}
	return renderCalls(c, session, store, "")
}

// SelectCallHandler queues a customer on the Make Calls tab
func SelectCallHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}
	id, err := customerParam(c)
	if err != nil {
		return err
	}

	if _, err := ownedCustomer(store, session, id); err != nil {
		return serviceError(c, err)
	}
	if err := services.SelectCustomer(db.DB, session, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update session")
	}
	return redirect(c, "/calls")
}

// CancelCallHandler clears the Make Calls selection without logging anything
func CancelCallHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}

	if err := services.ClearSelection(db.DB, session); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update session")
	}
	if isHTMX(c) {
		return renderCalls(c, session, store, "")
	}
	return c.Redirect(http.StatusSeeOther, "/calls")
}

// DialHandler simulates connecting to the selected customer. The pause ends
// early when the request is cancelled, in which case nothing is rendered.
func DialHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}

	selected := selectedCustomer(store, session)
	if selected == nil {
		return flashError(c, http.StatusNotFound, "Select a customer from the Customer List tab to make a call")
	}

	delay := config.DefaultDialDelay
	if cfg := middleware.GetConfig(c); cfg != nil {
		delay = cfg.DialDelay
	}

	if err := services.Dial(c.Request().Context(), delay); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[INFO] Dial to customer %d cancelled: %v", selected.ID, err)
			return nil
		}
		return err
	}

	message := "Connected to " + selected.Name
	if isHTMX(c) {
		return render(c, http.StatusOK, partials.DialStatus(components.AlertSuccess, message))
	}
	return renderCalls(c, session, store, message)
}

// LogCallHandler records the outcome of a call from the Make Calls tab and
// clears the selection
func LogCallHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.FormValue("customer_id"))
	if err != nil {
		if !session.HasSelectedCustomer() {
			return flashError(c, http.StatusBadRequest, "Select a customer from the Customer List tab to make a call")
		}
		id = *session.SelectedCustomerID
	}

	if _, err := ownedCustomer(store, session, id); err != nil {
		return serviceError(c, err)
	}

	entry, err := services.LogCall(c.Request().Context(), store, services.CallRequest{
		CustomerID: id,
		Outcome:    c.FormValue("outcome"),
		Notes:      c.FormValue("notes"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	auditCall(c, entry)

	if err := services.ClearSelection(db.DB, session); err != nil {
		log.Printf("[WARNING] Failed to clear call selection: %v", err)
	}

	const message = "Call logged successfully!"
	if isHTMX(c) {
		return render(c, http.StatusOK, partials.CallPanel(nil, message, middleware.GetCSRFToken(c)))
	}
	return renderCalls(c, session, store, message)
}

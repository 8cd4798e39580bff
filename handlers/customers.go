package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sales_call_app_go/db"
	"sales_call_app_go/middleware"
	"sales_call_app_go/models"
	"sales_call_app_go/services"
	"sales_call_app_go/templates/components"
	"sales_call_app_go/templates/pages"
	"sales_call_app_go/templates/partials"

	"github.com/labstack/echo/v4"
)

const customerAddedEvent = "customer-added"

// CustomersHandler renders the Customer Directory tab. The directory only
// lists customers owned by the logged-in RM.
func CustomersHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}

	filter := services.CustomerFilter{
		Search:    c.QueryParam("q"),
		Status:    c.QueryParam("status"),
		Potential: c.QueryParam("potential"),
	}
	sortKey := c.QueryParam("sort")
	if sortKey == "" {
		sortKey = services.SortByName
	}
	customers := services.QueryCustomers(store.CustomersFor(session.RMCode), filter, sortKey)

	if isHTMX(c) && hxTarget(c) == "customer-list" {
		return render(c, http.StatusOK, partials.CustomerList(customers, middleware.GetCSRFToken(c)))
	}

	return render(c, http.StatusOK, pages.Customers(pages.CustomersPage{
		Layout:    layoutProps(c, session, store, components.TabCustomers, "Customers"),
		Filter:    filter,
		SortKey:   sortKey,
		Customers: customers,
		Form:      pages.CustomerForm{Input: services.NewCustomerInput{Potential: models.PotentialMedium, Status: models.CustomerStatusNewLead}},
	}))
}

// CreateCustomerHandler handles the Add New Customer form
func CreateCustomerHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}

	var input services.NewCustomerInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}

	customer, err := services.CreateCustomer(c.Request().Context(), store, input, session.RMCode, time.Now())
	if err != nil {
		var verr *services.ValidationError
		if !errors.As(err, &verr) {
			return serviceError(c, err)
		}
		input.Normalize()
		if isHTMX(c) {
			return render(c, http.StatusOK, partials.NewCustomerForm(input, verr.Error(), "", middleware.GetCSRFToken(c)))
		}
		return render(c, http.StatusUnprocessableEntity, pages.Customers(pages.CustomersPage{
			Layout:    layoutProps(c, session, store, components.TabCustomers, "Customers"),
			SortKey:   services.SortByName,
			Customers: services.SortCustomers(store.CustomersFor(session.RMCode), services.SortByName),
			Form:      pages.CustomerForm{Input: input, Error: verr.Error()},
		}))
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCustomerCreated,
		"Customer", fmt.Sprint(customer.ID), customer.Name, "Customer added", customer)

	success := fmt.Sprintf("Customer %s added successfully!", customer.Name)
	if isHTMX(c) {
		c.Response().Header().Set("HX-Trigger", customerAddedEvent)
		blank := services.NewCustomerInput{Potential: models.PotentialMedium, Status: models.CustomerStatusNewLead}
		return render(c, http.StatusOK, partials.NewCustomerForm(blank, "", success, middleware.GetCSRFToken(c)))
	}
	return c.Redirect(http.StatusSeeOther, "/customers")
}

// HistoryHandler renders the Call History Lookup tab. A phone query searches
// the RM's customers; otherwise the customer picked from the directory is shown.
func HistoryHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}

	page := historyPage(c, session, store, strings.TrimSpace(c.QueryParam("phone")))
	if isHTMX(c) && hxTarget(c) == "history-result" {
		return render(c, http.StatusOK, partials.HistoryResult(page.Customer, page.Calls, page.Searched, "", page.Layout.CSRFToken))
	}
	return render(c, http.StatusOK, pages.History(page))
}

func historyPage(c echo.Context, session *models.Session, store *services.RecordStore, phone string) pages.HistoryPage {
	page := pages.HistoryPage{
		Layout: layoutProps(c, session, store, components.TabCustomers, "Call History"),
		Phone:  phone,
	}

	switch {
	case phone != "":
		page.Searched = true
		if customer, ok := services.FindCustomerByPhone(store.CustomersFor(session.RMCode), phone); ok {
			page.Customer = &customer
		}
	case session.HistoryCustomerID != nil:
		if customer, err := ownedCustomer(store, session, *session.HistoryCustomerID); err == nil {
			page.Customer = &customer
			page.Phone = customer.Phone
		}
	}

	if page.Customer != nil {
		page.Calls = services.CallHistory(store, page.Customer.ID)
	}
	return page
}

// SelectHistoryCustomerHandler opens a customer on the Call History Lookup tab
func SelectHistoryCustomerHandler(c echo.Context) error {
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
	if err := services.SetHistoryCustomer(db.DB, session, &id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update session")
	}
	return redirect(c, "/customers/history")
}

// LogHistoryCallHandler logs a call from the Call History Lookup tab
func LogHistoryCallHandler(c echo.Context) error {
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

	entry, err := services.LogCall(c.Request().Context(), store, services.CallRequest{
		CustomerID: id,
		Outcome:    c.FormValue("outcome"),
		Notes:      c.FormValue("notes"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	auditCall(c, entry)

	customer, _ := store.Customer(id)
	calls := services.CallHistory(store, id)
	const message = "Call logged successfully!"

	if isHTMX(c) {
		return render(c, http.StatusOK, partials.HistoryResult(&customer, calls, false, message, middleware.GetCSRFToken(c)))
	}
	return render(c, http.StatusOK, pages.History(pages.HistoryPage{
		Layout:   layoutProps(c, session, store, components.TabCustomers, "Call History"),
		Phone:    customer.Phone,
		Customer: &customer,
		Calls:    calls,
		Message:  message,
	}))
}

func auditCall(c echo.Context, entry *models.CallLogEntry) {
	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCallLogged,
		"Customer", fmt.Sprint(entry.CustomerID), entry.Customer, "Call logged: "+entry.Outcome, entry)
}

package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"sales_call_app_go/middleware"
	"sales_call_app_go/models"
	"sales_call_app_go/services"
	"sales_call_app_go/templates/components"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// hxTarget returns the id of the element an htmx request will swap, without the leading '#'
func hxTarget(c echo.Context) string {
	return c.Request().Header.Get("HX-Target")
}

// redirect sends the browser to path, via HX-Redirect for htmx requests
func redirect(c echo.Context, path string) error {
	if isHTMX(c) {
		c.Response().Header().Set("HX-Redirect", path)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// flashError shows message in the page's flash area. htmx only swaps 2xx
// responses, so htmx requests get a 200 retargeted fragment.
func flashError(c echo.Context, status int, message string) error {
	if isHTMX(c) {
		c.Response().Header().Set("HX-Retarget", components.FlashTarget)
		c.Response().Header().Set("HX-Reswap", "innerHTML")
		return render(c, http.StatusOK, components.Alert(components.AlertError, message))
	}
	return echo.NewHTTPError(status, message)
}

// serviceError maps service errors to responses
func serviceError(c echo.Context, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		return flashError(c, http.StatusNotFound, "Customer not found")
	case errors.Is(err, services.ErrInvalidOutcome):
		return flashError(c, http.StatusUnprocessableEntity, "Please choose a valid call outcome")
	case errors.As(err, &verr):
		return flashError(c, http.StatusUnprocessableEntity, verr.Error())
	default:
		log.Printf("[WARNING] Request %s %s failed: %v", c.Request().Method, c.Path(), err)
		return flashError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// requireStore returns the record store injected by middleware.Inject
func requireStore(c echo.Context) (*services.RecordStore, error) {
	store := middleware.GetRecordStore(c)
	if store == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Record store not configured")
	}
	return store, nil
}

func requireSession(c echo.Context) (*models.Session, error) {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return session, nil
}

// customerParam parses the :id route parameter
func customerParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid customer ID")
	}
	return id, nil
}

// ownedCustomer looks a customer up and hides customers of other RMs
func ownedCustomer(store *services.RecordStore, session *models.Session, id int) (models.Customer, error) {
	customer, ok := store.Customer(id)
	if !ok || !customer.IsOwnedBy(session.RMCode) {
		return models.Customer{}, services.ErrCustomerNotFound
	}
	return customer, nil
}

// layoutProps builds the page chrome for the logged-in RM
func layoutProps(c echo.Context, session *models.Session, store *services.RecordStore, tab, title string) components.LayoutProps {
	return components.LayoutProps{
		Title:     title + " | Sales Call System",
		Username:  session.Username,
		RMCode:    session.RMCode,
		ActiveTab: tab,
		CSRFToken: middleware.GetCSRFToken(c),
		Warnings:  store.Warnings(),
	}
}

// HomeHandler sends the dashboard root to the customer directory
func HomeHandler(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/customers")
}

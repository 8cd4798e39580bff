package pages

import (
	"sales_call_app_go/models"
	"sales_call_app_go/services"
	"sales_call_app_go/templates/components"
)

// LoginPage holds the data for the login form
type LoginPage struct {
	CSRFToken string
	Username  string
	Error     string
}

// CustomerForm echoes the Add New Customer form back after a failed submit
type CustomerForm struct {
	Input   services.NewCustomerInput
	Error   string
	Success string
}

// CustomersPage holds the data for the Customer Directory tab
type CustomersPage struct {
	Layout    components.LayoutProps
	Filter    services.CustomerFilter
	SortKey   string
	Customers []models.Customer
	Form      CustomerForm
}

// HistoryPage holds the data for the Call History Lookup tab
type HistoryPage struct {
	Layout   components.LayoutProps
	Phone    string
	Searched bool
	Customer *models.Customer
	Calls    []models.CallLogEntry
	Message  string
}

// CallsPage holds the data for the Make Calls tab
type CallsPage struct {
	Layout   components.LayoutProps
	Selected *models.Customer
	Message  string
}

// PerformancePage holds the data for the Performance tab
type PerformancePage struct {
	Layout  components.LayoutProps
	Summary services.Summary
	Recent  []models.CallLogEntry
}

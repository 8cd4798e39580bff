package models

// Customer potential tiers
const (
	PotentialHigh   = "H"
	PotentialMedium = "M"
	PotentialLow    = "L"
)

// Customer statuses. The call outcomes double as statuses once a call is logged.
const (
	CustomerStatusNewLead       = "New Lead"
	CustomerStatusPending       = "Pending"
	CustomerStatusCompleted     = "Completed"
	CustomerStatusMissed        = "Missed"
	CustomerStatusCallback      = "Callback"
	CustomerStatusNotInterested = "Not Interested"
)

// Customer is a single row of the customer source, owned by one relationship manager
type Customer struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Business    string `json:"business"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Potential   string `json:"potential"`
	Status      string `json:"status"`
	LastContact string `json:"last_contact"` // YYYY-MM-DD
	CallCount   int    `json:"call_count"`
	RMCode      string `json:"rm_code"`
}

// PotentialLabel returns the long form shown in filters, e.g. "H (High)"
func (c *Customer) PotentialLabel() string {
	return PotentialLabel(c.Potential)
}

// IsOwnedBy reports whether the customer belongs to the given RM
func (c *Customer) IsOwnedBy(rmCode string) bool {
	return c.RMCode == rmCode
}

// PotentialLabel maps a single-letter potential code to its filter label
func PotentialLabel(potential string) string {
	switch potential {
	case PotentialHigh:
		return "H (High)"
	case PotentialMedium:
		return "M (Medium)"
	case PotentialLow:
		return "L (Low)"
	default:
		return potential
	}
}

// Potentials lists the potential codes in rank order
func Potentials() []string {
	return []string{PotentialHigh, PotentialMedium, PotentialLow}
}

// CustomerStatuses lists every status a customer can hold
func CustomerStatuses() []string {
	return []string{
		CustomerStatusNewLead,
		CustomerStatusPending,
		CustomerStatusCompleted,
		CustomerStatusMissed,
		CustomerStatusCallback,
		CustomerStatusNotInterested,
	}
}

// IsValidPotential checks if the potential code is valid
func IsValidPotential(potential string) bool {
	for _, p := range Potentials() {
		if p == potential {
			return true
		}
	}
	return false
}

// IsValidCustomerStatus checks if the status is valid
func IsValidCustomerStatus(status string) bool {
	for _, s := range CustomerStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

package services

import (
	"sort"
	"strings"

	"sales_call_app_go/models"
)

// FilterAll disables a status or potential filter
const FilterAll = "All"

// Sort keys offered by the customer directory
const (
	SortByName        = "Name"
	SortByLastContact = "Last Contact"
	SortByPotential   = "Potential"
	SortByStatus      = "Status"
)

var potentialRank = map[string]int{
	models.PotentialHigh:   1,
	models.PotentialMedium: 2,
	models.PotentialLow:    3,
}

var statusRank = map[string]int{
	models.CustomerStatusNewLead:   1,
	models.CustomerStatusPending:   2,
	models.CustomerStatusCompleted: 3,
	models.CustomerStatusMissed:    4,
}

// CustomerFilter holds the directory search controls
type CustomerFilter struct {
	Search    string
	Status    string // exact status or FilterAll
	Potential string // code or label such as "H (High)", or FilterAll
}

// SortKeys lists the supported sort keys in display order
func SortKeys() []string {
	return []string{SortByName, SortByLastContact, SortByPotential, SortByStatus}
}

// PotentialFilterLabels lists the potential filter choices
func PotentialFilterLabels() []string {
	labels := []string{FilterAll}
	for _, p := range models.Potentials() {
		labels = append(labels, models.PotentialLabel(p))
	}
	return labels
}

// StatusFilterOptions lists the status filter choices
func StatusFilterOptions() []string {
	return append([]string{FilterAll}, models.CustomerStatuses()...)
}

// PotentialCode extracts the single-letter code from a label like "H (High)"
func PotentialCode(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	return label[:1]
}

// FilterCustomers returns the customers matching every active filter, in input order
func FilterCustomers(customers []models.Customer, filter CustomerFilter) []models.Customer {
	search := strings.ToLower(filter.Search)
	status := strings.TrimSpace(filter.Status)
	potential := ""
	if p := strings.TrimSpace(filter.Potential); p != "" && p != FilterAll {
		potential = PotentialCode(p)
	}

	result := make([]models.Customer, 0, len(customers))
	for _, c := range customers {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Business), search) {
			continue
		}
		if status != "" && status != FilterAll && c.Status != status {
			continue
		}
		if potential != "" && c.Potential != potential {
			continue
		}
		result = append(result, c)
	}
	return result
}

// SortCustomers returns a stably sorted copy. Unknown keys keep input order.
func SortCustomers(customers []models.Customer, key string) []models.Customer {
	sorted := append([]models.Customer(nil), customers...)

	var less func(a, b models.Customer) bool
	switch key {
	case SortByName:
		less = func(a, b models.Customer) bool { return a.Name < b.Name }
	case SortByLastContact:
		// YYYY-MM-DD orders correctly as a string
		less = func(a, b models.Customer) bool { return a.LastContact > b.LastContact }
	case SortByPotential:
		less = func(a, b models.Customer) bool { return rank(potentialRank, a.Potential, 4) < rank(potentialRank, b.Potential, 4) }
	case SortByStatus:
		less = func(a, b models.Customer) bool { return rank(statusRank, a.Status, 5) < rank(statusRank, b.Status, 5) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}

// QueryCustomers filters then sorts
func QueryCustomers(customers []models.Customer, filter CustomerFilter, sortKey string) []models.Customer {
	return SortCustomers(FilterCustomers(customers, filter), sortKey)
}

// FindCustomerByPhone returns the first customer whose phone matches exactly
func FindCustomerByPhone(customers []models.Customer, phone string) (models.Customer, bool) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return models.Customer{}, false
	}
	for _, c := range customers {
		if strings.TrimSpace(c.Phone) == phone {
			return c, true
		}
	}
	return models.Customer{}, false
}

func rank(ranks map[string]int, value string, unknown int) int {
	if r, ok := ranks[value]; ok {
		return r
	}
	return unknown
}

package services

import (
	"sales_call_app_go/models"
)

// DefaultRecentCallLimit matches the Performance tab's recent call feed
const DefaultRecentCallLimit = 5

// Summary holds the Performance tab counters
type Summary struct {
	Total           int
	Completed       int
	Pending         int
	Missed          int
	HighPotential   int
	MediumPotential int
	LowPotential    int
}

// Summarize counts customers by status and potential. Statuses other than
// Completed, Pending and Missed fall in no status bucket.
func Summarize(customers []models.Customer) Summary {
	s := Summary{Total: len(customers)}
	for _, c := range customers {
		switch c.Status {
		case models.CustomerStatusCompleted:
			s.Completed++
		case models.CustomerStatusPending:
			s.Pending++
		case models.CustomerStatusMissed:
			s.Missed++
		}

		switch c.Potential {
		case models.PotentialHigh:
			s.HighPotential++
		case models.PotentialMedium:
			s.MediumPotential++
		case models.PotentialLow:
			s.LowPotential++
		}
	}
	return s
}

// CallsForRM returns the log entries that belong to the RM's customers, in append order.
// Entries with no resolved customer id are matched by name.
func CallsForRM(callLog []models.CallLogEntry, customers []models.Customer, rmCode string) []models.CallLogEntry {
	ids := make(map[int]bool)
	names := make(map[string]bool)
	for _, c := range customers {
		if c.IsOwnedBy(rmCode) {
			ids[c.ID] = true
			names[c.Name] = true
		}
	}

	calls := []models.CallLogEntry{}
	for _, e := range callLog {
		if e.CustomerID != 0 && ids[e.CustomerID] || e.CustomerID == 0 && names[e.Customer] {
			calls = append(calls, e)
		}
	}
	return calls
}

// RecentCalls returns the last n entries for the RM, newest first
func RecentCalls(store *RecordStore, rmCode string, n int) []models.CallLogEntry {
	calls := CallsForRM(store.CallLog(), store.Customers(), rmCode)
	return newestFirst(calls, n)
}

func newestFirst(calls []models.CallLogEntry, n int) []models.CallLogEntry {
	if n <= 0 || n > len(calls) {
		n = len(calls)
	}
	recent := make([]models.CallLogEntry, 0, n)
	for i := len(calls) - 1; i >= len(calls)-n; i-- {
		recent = append(recent, calls[i])
	}
	return recent
}

// CallHistory returns a customer's calls, newest first
func CallHistory(store *RecordStore, customerID int) []models.CallLogEntry {
	return newestFirst(store.CallsFor(customerID), 0)
}

package models

import "strings"

const (
	// CallDateLayout is the timestamp format stored in the call log
	CallDateLayout = "2006-01-02 15:04"
	// ContactDateLayout is the date format of Customer.LastContact
	ContactDateLayout = "2006-01-02"
	// NoNotesPlaceholder is displayed for entries logged without notes
	NoNotesPlaceholder = "No notes"
)

// Call outcomes
const (
	CallOutcomeCompleted     = CustomerStatusCompleted
	CallOutcomeMissed        = CustomerStatusMissed
	CallOutcomeCallback      = CustomerStatusCallback
	CallOutcomeNotInterested = CustomerStatusNotInterested
)

// CallLogEntry is an append-only record of one call attempt.
// CustomerID is 0 for legacy rows whose customer could not be resolved by name.
type CallLogEntry struct {
	CustomerID int    `json:"customer_id"`
	Customer   string `json:"customer"`
	Date       string `json:"date"` // YYYY-MM-DD HH:MM
	Outcome    string `json:"outcome"`
	Notes      string `json:"notes"`
}

// DisplayNotes returns the notes or the "No notes" placeholder
func (e *CallLogEntry) DisplayNotes() string {
	if strings.TrimSpace(e.Notes) == "" {
		return NoNotesPlaceholder
	}
	return e.Notes
}

// CallOutcomes lists the outcomes selectable when logging a call
func CallOutcomes() []string {
	return []string{
		CallOutcomeCompleted,
		CallOutcomeMissed,
		CallOutcomeCallback,
		CallOutcomeNotInterested,
	}
}

// IsValidCallOutcome checks if the outcome is valid
func IsValidCallOutcome(outcome string) bool {
	for _, o := range CallOutcomes() {
		if o == outcome {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"sales_call_app_go/models"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidOutcome   = errors.New("invalid call outcome")
)

var notesPolicy = bluemonday.StrictPolicy()

// CallRequest is the outcome of one call, as submitted from the Make Calls or History tab
type CallRequest struct {
	CustomerID int
	Outcome    string
	Notes      string
	At         time.Time // zero means now
}

// LogCall appends a call-log entry and moves the customer to the outcome status.
// Unknown customers are rejected before anything is written.
func LogCall(ctx context.Context, store *RecordStore, req CallRequest) (*models.CallLogEntry, error) {
	if !models.IsValidCallOutcome(req.Outcome) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOutcome, req.Outcome)
	}

	customer, ok := store.Customer(req.CustomerID)
	if !ok {
		return nil, ErrCustomerNotFound
	}

	at := req.At
	if at.IsZero() {
		at = time.Now()
	}

	entry := models.CallLogEntry{
		CustomerID: customer.ID,
		Customer:   customer.Name,
		Date:       at.Format(models.CallDateLayout),
		Outcome:    req.Outcome,
		Notes:      SanitizeNotes(req.Notes),
	}

	_, err := store.RecordCall(ctx, entry, func(c *models.Customer) {
		c.Status = req.Outcome
		c.LastContact = at.Format(models.ContactDateLayout)
		c.CallCount++
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// SanitizeNotes strips markup from free-text notes and returns plain text
func SanitizeNotes(notes string) string {
	return strings.TrimSpace(html.UnescapeString(notesPolicy.Sanitize(notes)))
}

// Dial simulates the connect pause before a call. It returns ctx.Err() if the
// request is cancelled first.
func Dial(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

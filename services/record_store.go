package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"sales_call_app_go/config"
	"sales_call_app_go/models"
)

// RecordStoreOptions configures where the record store keeps its files
type RecordStoreOptions struct {
	CustomersKey string
	CallLogKey   string
	// PersistCustomers rewrites the customer source after every customer mutation.
	// When false, added customers and updated call stats live only in memory.
	PersistCustomers bool
	// ReadOnly stops Load from creating a missing call log
	ReadOnly bool
	// Now defaults to time.Now
	Now func() time.Time
}

// LoadReport summarizes what Load found
type LoadReport struct {
	CustomerCount  int
	CallCount      int
	UsedSampleData bool
	Warnings       []string
}

// RecordStore holds customers and the call log in memory and flushes them to
// flat files. It is the only writer of those files; running two processes
// against the same files is not supported.
type RecordStore struct {
	mu      sync.Mutex
	storage StorageProvider
	opts    RecordStoreOptions

	customers []models.Customer
	callLog   []models.CallLogEntry
	warnings  []string
}

// NewRecordStore creates an empty store. Call Load before use.
func NewRecordStore(storage StorageProvider, opts RecordStoreOptions) *RecordStore {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &RecordStore{
		storage:   storage,
		opts:      opts,
		customers: []models.Customer{},
		callLog:   []models.CallLogEntry{},
	}
}

// SampleCustomers is the dataset used when the customer source cannot be read
func SampleCustomers() []models.Customer {
	return []models.Customer{
		{ID: 1, Name: "Sok Dara", Business: "Sok Dara Grocery", Phone: "010 123 456", Email: "sokdara@email.com",
			Potential: models.PotentialHigh, Status: models.CustomerStatusNewLead, LastContact: "2023-01-15", CallCount: 0, RMCode: config.DefaultRMCode},
		{ID: 2, Name: "Lim Srey", Business: "Srey Fashion", Phone: "011 234 567", Email: "limsrey@email.com",
			Potential: models.PotentialMedium, Status: models.CustomerStatusPending, LastContact: "2023-02-20", CallCount: 2, RMCode: config.DefaultRMCode},
		{ID: 3, Name: "Chen Lao", Business: "Lao Construction", Phone: "012 345 678", Email: "chenlao@email.com",
			Potential: models.PotentialLow, Status: models.CustomerStatusCompleted, LastContact: "2023-03-10", CallCount: 1, RMCode: config.DefaultRMCode},
	}
}

// Load replaces the in-memory collections with the contents of both sources.
// An unreadable customer source falls back to SampleCustomers; a missing or
// empty call log is initialized with a header-only file unless ReadOnly is set.
func (s *RecordStore) Load(ctx context.Context) (*LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &LoadReport{}
	today := s.opts.Now().Format(models.ContactDateLayout)

	customers, err := s.readCustomers(ctx, today)
	if err != nil {
		log.Printf("[WARNING] Error loading customer data from %s: %v", s.opts.CustomersKey, err)
		report.Warnings = append(report.Warnings, fmt.Sprintf("Error loading customer data: %v. Showing sample customers.", err))
		report.UsedSampleData = true
		customers = SampleCustomers()
	}

	callLog, created, err := s.readCallLog(ctx)
	if err != nil {
		log.Printf("[WARNING] Error reading call log from %s: %v", s.opts.CallLogKey, err)
		report.Warnings = append(report.Warnings, fmt.Sprintf("Error reading call log: %v", err))
		callLog = []models.CallLogEntry{}
	}
	resolveCallCustomers(callLog, customers)

	s.customers = customers
	s.callLog = callLog
	s.warnings = report.Warnings

	if created && !s.opts.ReadOnly {
		if err := s.flushCallLog(ctx); err != nil {
			return report, fmt.Errorf("failed to initialize call log: %w", err)
		}
	}

	report.CustomerCount = len(customers)
	report.CallCount = len(callLog)
	log.Printf("[INFO] Loaded %d customers and %d call log entries", report.CustomerCount, report.CallCount)
	return report, nil
}

// Warnings returns the problems recorded by the last Load
func (s *RecordStore) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// Customers returns a snapshot of every customer
func (s *RecordStore) Customers() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Customer(nil), s.customers...)
}

// CustomersFor returns a snapshot of the customers owned by rmCode
func (s *RecordStore) CustomersFor(rmCode string) []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := []models.Customer{}
	for _, c := range s.customers {
		if c.IsOwnedBy(rmCode) {
			owned = append(owned, c)
		}
	}
	return owned
}

// Customer looks a customer up by id
func (s *RecordStore) Customer(id int) (models.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.customers[i], true
	}
	return models.Customer{}, false
}

// CallLog returns a snapshot of the full call log in append order
func (s *RecordStore) CallLog() []models.CallLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CallLogEntry(nil), s.callLog...)
}

// CallsFor returns the entries logged against a customer, in append order
func (s *RecordStore) CallsFor(customerID int) []models.CallLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := []models.CallLogEntry{}
	for _, e := range s.callLog {
		if e.CustomerID == customerID {
			calls = append(calls, e)
		}
	}
	return calls
}

// NextCustomerID is max existing id + 1
func (s *RecordStore) NextCustomerID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID()
}

// AddCustomer assigns the next id and appends the customer
func (s *RecordStore) AddCustomer(ctx context.Context, customer models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer.ID = s.nextID()
	s.customers = append(s.customers, customer)

	if s.opts.PersistCustomers {
		if err := s.flushCustomers(ctx); err != nil {
			s.customers = s.customers[:len(s.customers)-1]
			return models.Customer{}, err
		}
	}
	return customer, nil
}

// UpdateCustomer applies fn to the stored customer and returns the result
func (s *RecordStore) UpdateCustomer(ctx context.Context, id int, fn func(*models.Customer)) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Customer{}, ErrCustomerNotFound
	}

	previous := s.customers[i]
	fn(&s.customers[i])
	s.customers[i].ID = previous.ID

	if s.opts.PersistCustomers {
		if err := s.flushCustomers(ctx); err != nil {
			s.customers[i] = previous
			return models.Customer{}, err
		}
	}
	return s.customers[i], nil
}

// AppendCall adds an entry and rewrites the whole call-log file.
// On a failed write the entry is dropped again.
func (s *RecordStore) AppendCall(ctx context.Context, entry models.CallLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callLog = append(s.callLog, entry)
	if err := s.flushCallLog(ctx); err != nil {
		s.callLog = s.callLog[:len(s.callLog)-1]
		return err
	}
	return nil
}

// RecordCall appends entry and applies fn to its customer as one change.
// If either file cannot be written, both collections are restored and the
// call log is rewritten without the entry.
func (s *RecordStore) RecordCall(ctx context.Context, entry models.CallLogEntry, fn func(*models.Customer)) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(entry.CustomerID)
	if i < 0 {
		return models.Customer{}, ErrCustomerNotFound
	}

	previous := s.customers[i]
	s.callLog = append(s.callLog, entry)
	fn(&s.customers[i])
	s.customers[i].ID = previous.ID

	rollback := func() {
		s.customers[i] = previous
		s.callLog = s.callLog[:len(s.callLog)-1]
	}

	if err := s.flushCallLog(ctx); err != nil {
		rollback()
		return models.Customer{}, err
	}
	if s.opts.PersistCustomers {
		if err := s.flushCustomers(ctx); err != nil {
			rollback()
			if restoreErr := s.flushCallLog(ctx); restoreErr != nil {
				log.Printf("[ERROR] Failed to restore call log %s: %v", s.opts.CallLogKey, restoreErr)
			}
			return models.Customer{}, err
		}
	}
	return s.customers[i], nil
}

func (s *RecordStore) readCustomers(ctx context.Context, today string) ([]models.Customer, error) {
	reader, _, err := s.storage.Get(ctx, s.opts.CustomersKey)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return ReadCustomers(reader, TabularFormat(s.opts.CustomersKey), today)
}

// readCallLog reports created=true when the source is missing or empty
func (s *RecordStore) readCallLog(ctx context.Context) ([]models.CallLogEntry, bool, error) {
	size, err := s.storage.Stat(ctx, s.opts.CallLogKey)
	if errors.Is(err, ErrObjectNotFound) || (err == nil && size == 0) {
		return []models.CallLogEntry{}, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	reader, _, err := s.storage.Get(ctx, s.opts.CallLogKey)
	if err != nil {
		return nil, false, err
	}
	defer reader.Close()

	entries, err := ReadCallLog(reader)
	return entries, false, err
}

func (s *RecordStore) flushCallLog(ctx context.Context) error {
	var buf bytes.Buffer
	if err := WriteCallLog(&buf, s.callLog); err != nil {
		return err
	}
	if _, err := s.storage.UploadReader(ctx, &buf, s.opts.CallLogKey, ContentTypeFor(s.opts.CallLogKey), int64(buf.Len())); err != nil {
		return fmt.Errorf("failed to save call log: %w", err)
	}
	return nil
}

func (s *RecordStore) flushCustomers(ctx context.Context) error {
	var buf bytes.Buffer
	if err := WriteCustomers(&buf, TabularFormat(s.opts.CustomersKey), s.customers); err != nil {
		return err
	}
	if _, err := s.storage.UploadReader(ctx, &buf, s.opts.CustomersKey, ContentTypeFor(s.opts.CustomersKey), int64(buf.Len())); err != nil {
		return fmt.Errorf("failed to save customers: %w", err)
	}
	return nil
}

func (s *RecordStore) indexOf(id int) int {
	for i := range s.customers {
		if s.customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *RecordStore) nextID() int {
	maxID := 0
	for _, c := range s.customers {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	return maxID + 1
}

// resolveCallCustomers fills CustomerID on entries that only carry a name,
// using the lowest-id customer with that name
func resolveCallCustomers(entries []models.CallLogEntry, customers []models.Customer) {
	byName := make(map[string]int)
	for _, c := range customers {
		if id, ok := byName[c.Name]; !ok || c.ID < id {
			byName[c.Name] = c.ID
		}
	}
	for i := range entries {
		if entries[i].CustomerID == 0 {
			entries[i].CustomerID = byName[entries[i].Customer]
		}
	}
}

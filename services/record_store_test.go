package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sales_call_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

const testCustomersCSV = "id,name,business,phone,email,potential,status,last_contact,call_count,rm_code\n" +
	"1,Sok Dara,Sok Dara Grocery,010 123 456,sokdara@email.com,H,New Lead,2023-01-15,0,001\n" +
	"2,Lim Srey,Srey Fashion,011 234 567,limsrey@email.com,M,Pending,2023-02-20,2,001\n" +
	"3,Chen Lao,Lao Construction,012 345 678,chenlao@email.com,L,Completed,2023-03-10,1,002\n"

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func readTestFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func newTestStore(t *testing.T, dir string, persistCustomers bool) *RecordStore {
	t.Helper()
	return NewRecordStore(NewLocalStorage(dir), RecordStoreOptions{
		CustomersKey:     "customers.csv",
		CallLogKey:       "call_log.csv",
		PersistCustomers: persistCustomers,
		Now:              func() time.Time { return fixedNow },
	})
}

// failingStorage wraps a provider and fails every upload
type failingStorage struct {
	StorageProvider
}

func (f failingStorage) UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error) {
	return nil, errors.New("disk full")
}

func TestRecordStoreLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Reads customers and initializes a missing call log", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		store := newTestStore(t, dir, false)

		report, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, report.CustomerCount)
		assert.Equal(t, 0, report.CallCount)
		assert.False(t, report.UsedSampleData)
		assert.Empty(t, report.Warnings)

		assert.Equal(t, "customer_id,customer,date,outcome,notes\n", readTestFile(t, dir, "call_log.csv"))
	})

	t.Run("Initializes an empty call log file", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		writeTestFile(t, dir, "call_log.csv", "")
		store := newTestStore(t, dir, false)

		_, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "customer_id,customer,date,outcome,notes\n", readTestFile(t, dir, "call_log.csv"))
	})

	t.Run("Read-only load leaves a missing call log absent", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		store := NewRecordStore(NewLocalStorage(dir), RecordStoreOptions{
			CustomersKey: "customers.csv",
			CallLogKey:   "call_log.csv",
			ReadOnly:     true,
		})

		report, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, report.CustomerCount)
		assert.Empty(t, store.CallLog())
		_, err = os.Stat(filepath.Join(dir, "call_log.csv"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Falls back to sample data", func(t *testing.T) {
		dir := t.TempDir()
		store := newTestStore(t, dir, false)

		report, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, report.UsedSampleData)
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "Error loading customer data")
		assert.Equal(t, SampleCustomers(), store.Customers())
		assert.Equal(t, report.Warnings, store.Warnings())
	})

	t.Run("Resolves legacy name-keyed entries to customer ids", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		writeTestFile(t, dir, "call_log.csv", "customer,date,outcome,notes\n"+
			"Lim Srey,2024-04-01 10:00,Pending,\n"+
			"Nobody,2024-04-02 10:00,Missed,\n")
		store := newTestStore(t, dir, false)

		report, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.CallCount)

		calls := store.CallLog()
		assert.Equal(t, 2, calls[0].CustomerID)
		assert.Equal(t, 0, calls[1].CustomerID)
		assert.Len(t, store.CallsFor(2), 1)
	})

	t.Run("Unreadable call log is not overwritten", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		broken := "customer,date,outcome,notes\n\"unterminated,2024-04-01 10:00,Missed,\n"
		writeTestFile(t, dir, "call_log.csv", broken)
		store := newTestStore(t, dir, false)

		report, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, store.CallLog())
		require.Len(t, report.Warnings, 1)
		assert.Equal(t, broken, readTestFile(t, dir, "call_log.csv"))
	})

	t.Run("Reload discards in-memory customers when not persisting", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		store := newTestStore(t, dir, false)
		_, err := store.Load(ctx)
		require.NoError(t, err)

		_, err = store.AddCustomer(ctx, models.Customer{Name: "Temp"})
		require.NoError(t, err)
		assert.Len(t, store.Customers(), 4)

		_, err = store.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, store.Customers(), 3)
	})
}

func TestRecordStoreCustomers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeTestFile(t, dir, "customers.csv", testCustomersCSV)
	store := newTestStore(t, dir, false)
	_, err := store.Load(ctx)
	require.NoError(t, err)

	t.Run("CustomersFor scopes by RM", func(t *testing.T) {
		owned := store.CustomersFor("001")
		require.Len(t, owned, 2)
		assert.Equal(t, "Sok Dara", owned[0].Name)
		assert.Empty(t, store.CustomersFor("999"))
	})

	t.Run("Snapshots do not alias the store", func(t *testing.T) {
		snapshot := store.Customers()
		snapshot[0].Name = "Changed"
		c, ok := store.Customer(1)
		require.True(t, ok)
		assert.Equal(t, "Sok Dara", c.Name)
	})

	t.Run("AddCustomer assigns max id plus one", func(t *testing.T) {
		assert.Equal(t, 4, store.NextCustomerID())
		added, err := store.AddCustomer(ctx, models.Customer{ID: 99, Name: "New", RMCode: "001"})
		require.NoError(t, err)
		assert.Equal(t, 4, added.ID)
		assert.Equal(t, 5, store.NextCustomerID())

		// Session-local by default
		assert.Equal(t, testCustomersCSV, readTestFile(t, dir, "customers.csv"))
	})

	t.Run("UpdateCustomer keeps the id", func(t *testing.T) {
		updated, err := store.UpdateCustomer(ctx, 2, func(c *models.Customer) {
			c.ID = 50
			c.Status = models.CustomerStatusCallback
		})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.ID)
		assert.Equal(t, models.CustomerStatusCallback, updated.Status)
	})

	t.Run("UpdateCustomer on unknown id", func(t *testing.T) {
		_, err := store.UpdateCustomer(ctx, 404, func(c *models.Customer) {})
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("Empty store starts ids at one", func(t *testing.T) {
		empty := newTestStore(t, t.TempDir(), false)
		assert.Equal(t, 1, empty.NextCustomerID())
	})
}

func TestRecordStorePersistCustomers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeTestFile(t, dir, "customers.csv", testCustomersCSV)
	store := newTestStore(t, dir, true)
	_, err := store.Load(ctx)
	require.NoError(t, err)

	_, err = store.AddCustomer(ctx, models.Customer{Name: "Kim Heng", Potential: "H", Status: "New Lead", LastContact: "2024-05-01", RMCode: "001"})
	require.NoError(t, err)

	content := readTestFile(t, dir, "customers.csv")
	assert.True(t, strings.HasPrefix(content, "id,name,business,phone,email,potential,status,last_contact,call_count,rm_code\n"))
	assert.Contains(t, content, "4,Kim Heng,,,,H,New Lead,2024-05-01,0,001")

	reloaded := newTestStore(t, dir, true)
	_, err = reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, reloaded.Customers(), 4)
}

func TestRecordStoreAppendCall(t *testing.T) {
	ctx := context.Background()

	t.Run("Rewrites the full log", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		writeTestFile(t, dir, "call_log.csv", "customer_id,customer,date,outcome,notes\n3,Chen Lao,2023-03-10 14:00,Missed,\n")
		store := newTestStore(t, dir, false)
		_, err := store.Load(ctx)
		require.NoError(t, err)

		err = store.AppendCall(ctx, models.CallLogEntry{CustomerID: 2, Customer: "Lim Srey", Date: "2024-05-01 09:30", Outcome: "Pending"})
		require.NoError(t, err)

		assert.Len(t, store.CallLog(), 2)
		assert.Equal(t, "customer_id,customer,date,outcome,notes\n"+
			"3,Chen Lao,2023-03-10 14:00,Missed,\n"+
			"2,Lim Srey,2024-05-01 09:30,Pending,\n", readTestFile(t, dir, "call_log.csv"))
	})

	t.Run("Failed write drops the entry", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		writeTestFile(t, dir, "call_log.csv", "customer_id,customer,date,outcome,notes\n")
		store := NewRecordStore(failingStorage{NewLocalStorage(dir)}, RecordStoreOptions{
			CustomersKey: "customers.csv",
			CallLogKey:   "call_log.csv",
		})
		_, err := store.Load(ctx)
		require.NoError(t, err)

		err = store.AppendCall(ctx, models.CallLogEntry{CustomerID: 1, Customer: "Sok Dara", Outcome: "Missed"})
		assert.Error(t, err)
		assert.Empty(t, store.CallLog())
	})
}

// failingKeyStorage fails uploads to a single key
type failingKeyStorage struct {
	StorageProvider
	key string
}

func (f failingKeyStorage) UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error) {
	if key == f.key {
		return nil, errors.New("disk full")
	}
	return f.StorageProvider.UploadReader(ctx, reader, key, contentType, size)
}

func markCompleted(c *models.Customer) {
	c.Status = models.CustomerStatusCompleted
	c.CallCount++
}

func TestRecordStoreRecordCall(t *testing.T) {
	ctx := context.Background()
	const header = "customer_id,customer,date,outcome,notes\n"

	t.Run("Rewrites the full log and updates the customer", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		writeTestFile(t, dir, "call_log.csv", "001,Chen Lao,2023-03-10 14:00,1,legacy row\n")
		store := newTestStore(t, dir, false)
		_, err := store.Load(ctx)
		require.NoError(t, err)

		updated, err := store.RecordCall(ctx, models.CallLogEntry{CustomerID: 1, Customer: "Sok Dara", Date: "2024-05-01 09:30", Outcome: "Completed", Notes: "ok"}, markCompleted)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.ID)
		assert.Equal(t, 1, updated.CallCount)

		assert.Equal(t, header+
			"3,Chen Lao,2023-03-10 14:00,,legacy row\n"+
			"1,Sok Dara,2024-05-01 09:30,Completed,ok\n", readTestFile(t, dir, "call_log.csv"))
	})

	t.Run("Unknown customer", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		store := newTestStore(t, dir, false)
		_, err := store.Load(ctx)
		require.NoError(t, err)

		_, err = store.RecordCall(ctx, models.CallLogEntry{CustomerID: 404, Outcome: "Missed"}, markCompleted)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
		assert.Empty(t, store.CallLog())
		assert.Equal(t, header, readTestFile(t, dir, "call_log.csv"))
	})

	t.Run("Failed call log write restores the customer", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		writeTestFile(t, dir, "call_log.csv", header)
		store := NewRecordStore(failingStorage{NewLocalStorage(dir)}, RecordStoreOptions{
			CustomersKey: "customers.csv",
			CallLogKey:   "call_log.csv",
		})
		_, err := store.Load(ctx)
		require.NoError(t, err)

		_, err = store.RecordCall(ctx, models.CallLogEntry{CustomerID: 1, Customer: "Sok Dara", Outcome: "Missed"}, markCompleted)
		assert.Error(t, err)
		assert.Empty(t, store.CallLog())
		customer, _ := store.Customer(1)
		assert.Equal(t, models.CustomerStatusNewLead, customer.Status)
		assert.Equal(t, 0, customer.CallCount)
	})

	t.Run("Failed customer write drops the logged entry", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "customers.csv", testCustomersCSV)
		writeTestFile(t, dir, "call_log.csv", header)
		store := NewRecordStore(failingKeyStorage{NewLocalStorage(dir), "customers.csv"}, RecordStoreOptions{
			CustomersKey:     "customers.csv",
			CallLogKey:       "call_log.csv",
			PersistCustomers: true,
		})
		_, err := store.Load(ctx)
		require.NoError(t, err)

		_, err = store.RecordCall(ctx, models.CallLogEntry{CustomerID: 1, Customer: "Sok Dara", Date: "2024-05-01 09:30", Outcome: "Completed"}, markCompleted)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save customers")

		customer, _ := store.Customer(1)
		assert.Len(t, store.CallsFor(1), customer.CallCount)
		assert.Equal(t, models.CustomerStatusNewLead, customer.Status)
		assert.Empty(t, store.CallLog())
		assert.Equal(t, header, readTestFile(t, dir, "call_log.csv"))
		assert.Equal(t, testCustomersCSV, readTestFile(t, dir, "customers.csv"))
	})
}

package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sales_call_app_go/config"
	"sales_call_app_go/db"
	"sales_call_app_go/middleware"
	"sales_call_app_go/models"
	"sales_call_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testCustomersCSV = "id,name,business,phone,email,potential,status,last_contact,call_count,rm_code\n" +
	"1,Sok Dara,Sok Dara Grocery,010 123 456,sokdara@email.com,H,New Lead,2023-01-15,0,001\n" +
	"2,Lim Srey,Srey Fashion,011 234 567,limsrey@email.com,M,Pending,2023-02-20,2,001\n" +
	"3,Chen Lao,Lao Construction,012 345 678,chenlao@email.com,L,Completed,2023-03-10,1,002\n"

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	require.NoError(t, err)

	// Audit events are written from goroutines; one connection serializes them with the test
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = testDB.AutoMigrate(&models.Session{}, &models.AuditLog{})
	require.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

// testApp is the set of process-wide services a handler test runs against
type testApp struct {
	dir     string
	config  *config.Config
	store   *services.RecordStore
	storage services.StorageProvider
	gate    *services.AccessGate
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	setupTestDB(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "customers.csv"), []byte(testCustomersCSV), 0644))

	storage := services.NewLocalStorage(dir)
	store := services.NewRecordStore(storage, services.RecordStoreOptions{
		CustomersKey: "customers.csv",
		CallLogKey:   "call_log.csv",
	})
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	gate, err := services.NewAccessGate([]string{"001", "002"})
	require.NoError(t, err)

	return &testApp{
		dir:     dir,
		config:  &config.Config{Environment: "test"},
		store:   store,
		storage: storage,
		gate:    gate,
	}
}

func (a *testApp) appServices() middleware.AppServices {
	return middleware.AppServices{Config: a.config, Store: a.store, Storage: a.storage, Gate: a.gate}
}

// login creates a persisted session for rmCode
func (a *testApp) login(t *testing.T, rmCode string) *models.Session {
	t.Helper()
	session, err := services.CreateSession(db.DB, "alice", rmCode, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	return session
}

func (a *testApp) readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(a.dir, name))
	require.NoError(t, err)
	return string(data)
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

// serve runs handler behind the same dependency and audit middleware the server uses
func (a *testApp) serve(t *testing.T, c echo.Context, session *models.Session, handler echo.HandlerFunc) error {
	t.Helper()
	if session != nil {
		c.Set(middleware.ContextKeySession, session)
	}
	chain := middleware.Inject(a.appServices())(middleware.AuditContext()(handler))
	return chain(c)
}

func form(values map[string]string) io.Reader {
	f := url.Values{}
	for k, v := range values {
		f.Set(k, v)
	}
	return strings.NewReader(f.Encode())
}

func htmx(c echo.Context, target string) {
	c.Request().Header.Set("HX-Request", "true")
	if target != "" {
		c.Request().Header.Set("HX-Target", target)
	}
}

// reloadSession reads the session row back from the database
func reloadSession(t *testing.T, session *models.Session) *models.Session {
	t.Helper()
	var fresh models.Session
	require.NoError(t, db.DB.First(&fresh, "id = ?", session.ID).Error)
	return &fresh
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if assert.ErrorAs(t, err, &he) {
		assert.Equal(t, code, he.Code)
	}
}

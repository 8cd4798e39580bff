package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sales_call_app_go/db"
	"sales_call_app_go/models"
	"sales_call_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = testDB.AutoMigrate(&models.Session{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// Set the global DB variable used by middleware
	db.DB = testDB
	t.Cleanup(func() { sqlDB.Close() })
	return testDB
}

func TestRequireAuth(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	session, err := services.CreateSession(testDB, "dara", "001", "127.0.0.1", "test-agent")
	require.NoError(t, err)

	handler := RequireAuth()(func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	})

	t.Run("ValidSession", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, GetCurrentSession(c))
		assert.Equal(t, "001", GetCurrentSession(c).RMCode)
	})

	t.Run("NoCookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/customers", nil), rec)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("NoCookieHTMX", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/calls/log", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	})

	t.Run("InvalidTokenClearsCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "invalid-token"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookieName+"=;")
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		expired := models.Session{ID: "expired", Username: "dara", RMCode: "001", Token: "expired-token", ExpiresAt: time.Now().Add(-time.Hour)}
		require.NoError(t, testDB.Create(&expired).Error)

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: expired.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestRedirectIfAuthenticated(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	session, err := services.CreateSession(testDB, "dara", "001", "", "")
	require.NoError(t, err)

	handler := RedirectIfAuthenticated("/customers")(func(c echo.Context) error {
		return c.String(http.StatusOK, "login page")
	})

	t.Run("LoggedIn", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()

		assert.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/customers", rec.Header().Get("Location"))
	})

	t.Run("Anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()

		assert.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/login", nil), rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/login", nil), rec)

	SetSessionCookie(c, &models.Session{Token: "abc", ExpiresAt: time.Now().Add(time.Hour)})

	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
}

func TestGetCurrentSession(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, GetCurrentSession(c))

	session := &models.Session{ID: "123"}
	c.Set(ContextKeySession, session)
	assert.Equal(t, session, GetCurrentSession(c))
}

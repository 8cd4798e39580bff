package handlers

import (
	"net/http"
	"testing"

	"sales_call_app_go/db"
	"sales_call_app_go/middleware"
	"sales_call_app_go/models"
	"sales_call_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHandler(t *testing.T) {
	_, c, rec := setupEcho(http.MethodGet, "/login", nil)

	err := LoginHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="rm_code"`)
}

func TestLoginPostHandler(t *testing.T) {
	t.Run("Valid credentials", func(t *testing.T) {
		app := setupTestApp(t)
		_, c, rec := setupEcho(http.MethodPost, "/login", form(map[string]string{"username": "alice", "rm_code": "002"}))

		err := app.serve(t, c, nil, LoginPostHandler)
		require.NoError(t, err)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/customers", rec.Header().Get("Location"))

		var cookie *http.Cookie
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == middleware.SessionCookieName {
				cookie = ck
			}
		}
		require.NotNil(t, cookie)

		session, err := services.ValidateSession(db.DB, cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, "alice", session.Username)
		assert.Equal(t, "002", session.RMCode)
		assert.Nil(t, session.SelectedCustomerID)
	})

	t.Run("HTMX request success", func(t *testing.T) {
		app := setupTestApp(t)
		_, c, rec := setupEcho(http.MethodPost, "/login", form(map[string]string{"username": "alice", "rm_code": "001"}))
		htmx(c, "login-error")

		err := app.serve(t, c, nil, LoginPostHandler)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/customers", rec.Header().Get("HX-Redirect"))
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		app := setupTestApp(t)
		_, c, rec := setupEcho(http.MethodPost, "/login", form(map[string]string{"username": "alice", "rm_code": "999"}))

		err := app.serve(t, c, nil, LoginPostHandler)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials, please try again.")
		assert.Contains(t, rec.Body.String(), `value="alice"`)

		var count int64
		db.DB.Model(&models.Session{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("HTMX request error", func(t *testing.T) {
		app := setupTestApp(t)
		_, c, rec := setupEcho(http.MethodPost, "/login", form(map[string]string{"username": "alice", "rm_code": "wrong"}))
		htmx(c, "login-error")

		err := app.serve(t, c, nil, LoginPostHandler)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials, please try again.")
		assert.NotContains(t, rec.Body.String(), "<html")
	})

	t.Run("Empty inputs", func(t *testing.T) {
		app := setupTestApp(t)
		_, c, rec := setupEcho(http.MethodPost, "/login", form(map[string]string{"username": " ", "rm_code": ""}))

		err := app.serve(t, c, nil, LoginPostHandler)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Username and RM Code are required")
	})

	t.Run("Without an access gate", func(t *testing.T) {
		setupTestDB(t)
		_, c, _ := setupEcho(http.MethodPost, "/login", form(map[string]string{"username": "alice", "rm_code": "001"}))

		err := LoginPostHandler(c)
		assertHTTPError(t, err, http.StatusInternalServerError)
	})
}

func TestLogoutHandler(t *testing.T) {
	app := setupTestApp(t)
	session := app.login(t, "001")
	require.NoError(t, services.SelectCustomer(db.DB, session, 1))

	_, c, rec := setupEcho(http.MethodPost, "/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})

	err := app.serve(t, c, session, LogoutHandler)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	_, err = services.ValidateSession(db.DB, session.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestHomeHandler(t *testing.T) {
	_, c, rec := setupEcho(http.MethodGet, "/", nil)

	err := HomeHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/customers", rec.Header().Get("Location"))
}

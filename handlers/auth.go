package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"sales_call_app_go/db"
	"sales_call_app_go/middleware"
	"sales_call_app_go/models"
	"sales_call_app_go/services"
	"sales_call_app_go/templates/components"
	"sales_call_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// LoginHandler renders the login page
func LoginHandler(c echo.Context) error {
	return render(c, http.StatusOK, pages.Login(pages.LoginPage{CSRFToken: middleware.GetCSRFToken(c)}))
}

// LoginPostHandler handles the login form submission
func LoginPostHandler(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	code := c.FormValue("rm_code")

	gate := middleware.GetAccessGate(c)
	if gate == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Access codes not configured")
	}

	rmCode, err := gate.Authenticate(username, code)
	if err != nil {
		message := "Invalid credentials, please try again."
		if errors.Is(err, services.ErrMissingCredentials) {
			message = "Username and RM Code are required"
		}
		log.Printf("[WARNING] Failed login for %q from %s", username, c.RealIP())

		if isHTMX(c) {
			return render(c, http.StatusOK, components.Alert(components.AlertError, message))
		}
		return render(c, http.StatusUnauthorized, pages.Login(pages.LoginPage{
			CSRFToken: middleware.GetCSRFToken(c),
			Username:  username,
			Error:     message,
		}))
	}

	// Every login starts from the files on disk
	store, err := requireStore(c)
	if err != nil {
		return err
	}
	if _, err := store.Load(c.Request().Context()); err != nil {
		log.Printf("[WARNING] Failed to reload records on login: %v", err)
	}

	session, err := services.CreateSession(db.DB, username, rmCode, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}
	middleware.SetSessionCookie(c, session)
	middleware.LoginRateLimiter.Reset(c.RealIP())

	services.LogAuditEvent(db.DB, services.AuditContextFromSession(session), models.AuditActionLogin,
		"Session", session.ID, session.Username, "RM logged in", nil)
	log.Printf("[INFO] %s logged in as RM %s", session.Username, session.RMCode)

	return redirect(c, "/customers")
}

// LogoutHandler ends the session, which resets every piece of dashboard state
func LogoutHandler(c echo.Context) error {
	if session := middleware.GetCurrentSession(c); session != nil {
		services.LogAuditEvent(db.DB, services.AuditContextFromSession(session), models.AuditActionLogout,
			"Session", session.ID, session.Username, "RM logged out", nil)
	}

	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			log.Printf("[WARNING] %v", err)
		}
	}
	middleware.ClearSessionCookie(c)

	return redirect(c, "/login")
}

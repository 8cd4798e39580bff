package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"sales_call_app_go/db"
	"sales_call_app_go/middleware"
	"sales_call_app_go/models"
	"sales_call_app_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportPerformanceHandler downloads the RM's performance workbook and keeps
// a copy in storage. A failed archive does not block the download.
func ExportPerformanceHandler(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	store, err := requireStore(c)
	if err != nil {
		return err
	}

	buf, err := services.PerformanceReport(store, session.RMCode)
	if err != nil {
		log.Printf("[WARNING] Failed to build report for RM %s: %v", session.RMCode, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate report")
	}
	report := buf.Bytes()
	now := time.Now()

	resourceID := ""
	if storage := middleware.GetStorage(c); storage != nil {
		result, err := services.ArchiveReport(c.Request().Context(), storage, session.RMCode, report, now)
		if err != nil {
			log.Printf("[WARNING] %v", err)
		} else {
			resourceID = result.Key
		}
	}

	filename := services.ReportFilename(session.RMCode, now)
	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionReportExported,
		"Report", resourceID, filename, "Performance report exported", nil)

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, xlsxContentType, report)
}

package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"sales_call_app_go/models"

	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	Username  string
	RMCode    string
	IPAddress string
	UserAgent string
}

// AuditContextFromSession builds an AuditContext for the logged-in RM
func AuditContextFromSession(session *models.Session) AuditContext {
	if session == nil {
		return AuditContext{}
	}
	return AuditContext{
		Username:  session.Username,
		RMCode:    session.RMCode,
		IPAddress: session.IPAddress,
		UserAgent: session.UserAgent,
	}
}

// RecordAuditEvent writes an audit log entry
func RecordAuditEvent(
	db *gorm.DB,
	ctx AuditContext,
	action models.AuditAction,
	resourceType string,
	resourceID string,
	resourceName string,
	description string,
	newValues interface{},
) error {
	var newJSON string
	if newValues != nil {
		if bytes, err := json.Marshal(newValues); err == nil {
			newJSON = string(bytes)
		}
	}

	auditLog := models.AuditLog{
		Username:     ctx.Username,
		RMCode:       ctx.RMCode,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Action:       action,
		Description:  description,
		NewValues:    newJSON,
		IPAddress:    ctx.IPAddress,
		UserAgent:    ctx.UserAgent,
	}

	if err := db.Create(&auditLog).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// LogAuditEvent creates a new audit log entry asynchronously
func LogAuditEvent(
	db *gorm.DB,
	ctx AuditContext,
	action models.AuditAction,
	resourceType string,
	resourceID string,
	resourceName string,
	description string,
	newValues interface{},
) {
	if db == nil {
		return
	}
	// Run in goroutine to avoid blocking the request
	go func() {
		if err := RecordAuditEvent(db, ctx, action, resourceType, resourceID, resourceName, description, newValues); err != nil {
			log.Printf("[AUDIT] %v", err)
		}
	}()
}

// AuditLogFilters contains filter options for audit log queries
type AuditLogFilters struct {
	Action   models.AuditAction
	DateFrom time.Time
	DateTo   time.Time
}

// GetRMAuditLogs returns an RM's audit trail, newest first
func GetRMAuditLogs(db *gorm.DB, rmCode string, filters AuditLogFilters, limit int) ([]models.AuditLog, error) {
	query := db.Model(&models.AuditLog{}).Where("rm_code = ?", rmCode)

	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var logs []models.AuditLog
	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

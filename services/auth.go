package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sales_call_app_go/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// SessionTokenLength is the length of the session token in bytes (64 chars hex)
	SessionTokenLength = 32
	// DefaultSessionDuration is the default session duration (12 hours)
	DefaultSessionDuration = 12 * time.Hour
)

var (
	ErrMissingCredentials = errors.New("username and access code are required")
	ErrInvalidAccessCode  = errors.New("invalid RM access code")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

type accessCode struct {
	code string
	hash string
}

// AccessGate checks RM access codes. Codes are kept as bcrypt hashes once
// the gate is built.
type AccessGate struct {
	codes []accessCode
}

// NewAccessGate hashes the configured codes. Blank codes are ignored.
func NewAccessGate(codes []string) (*AccessGate, error) {
	gate := &AccessGate{}
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		hash, err := HashPassword(code)
		if err != nil {
			return nil, err
		}
		gate.codes = append(gate.codes, accessCode{code: code, hash: hash})
	}
	if len(gate.codes) == 0 {
		return nil, errors.New("no RM access codes configured")
	}
	return gate, nil
}

// Authenticate returns the RM code the access code unlocks
func (g *AccessGate) Authenticate(username, code string) (string, error) {
	username = strings.TrimSpace(username)
	code = strings.TrimSpace(code)
	if username == "" || code == "" {
		return "", ErrMissingCredentials
	}

	for _, c := range g.codes {
		if VerifyPassword(c.hash, code) {
			return c.code, nil
		}
	}
	return "", ErrInvalidAccessCode
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSession creates a new session for an RM login
func CreateSession(db *gorm.DB, username, rmCode, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		Username:  strings.TrimSpace(username),
		RMCode:    rmCode,
		Token:     token,
		ExpiresAt: time.Now().Add(DefaultSessionDuration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession validates a session token and returns the session if valid
func ValidateSession(db *gorm.DB, token string) (*models.Session, error) {
	var session models.Session

	err := db.Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		db.Delete(&session)
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// DeleteSession deletes a session (logout)
func DeleteSession(db *gorm.DB, token string) error {
	result := db.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database
func CleanupExpiredSessions(db *gorm.DB) error {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("[INFO] Cleaned up %d expired sessions", result.RowsAffected)
	}
	return nil
}

// SelectCustomer queues a customer on the Make Calls tab
func SelectCustomer(db *gorm.DB, session *models.Session, customerID int) error {
	if err := setSessionColumn(db, session, "selected_customer_id", &customerID); err != nil {
		return err
	}
	session.SelectedCustomerID = &customerID
	return nil
}

// ClearSelection empties the Make Calls tab
func ClearSelection(db *gorm.DB, session *models.Session) error {
	if err := setSessionColumn(db, session, "selected_customer_id", nil); err != nil {
		return err
	}
	session.SelectedCustomerID = nil
	return nil
}

// SetHistoryCustomer remembers the customer shown on the Call History Lookup tab.
// A nil id clears it.
func SetHistoryCustomer(db *gorm.DB, session *models.Session, customerID *int) error {
	if err := setSessionColumn(db, session, "history_customer_id", customerID); err != nil {
		return err
	}
	session.HistoryCustomerID = customerID
	return nil
}

func setSessionColumn(db *gorm.DB, session *models.Session, column string, value *int) error {
	var v interface{}
	if value != nil {
		v = *value
	}
	result := db.Model(&models.Session{}).Where("id = ?", session.ID).Update(column, v)
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

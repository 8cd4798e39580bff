package middleware

import (
	"sales_call_app_go/config"
	"sales_call_app_go/services"

	"github.com/labstack/echo/v4"
)

// Context keys for the process-wide dependencies
const (
	ContextKeyConfig     = "config"
	ContextKeyStore      = "record_store"
	ContextKeyStorage    = "storage"
	ContextKeyAccessGate = "access_gate"
)

// AppServices bundles what handlers need besides the session database
type AppServices struct {
	Config  *config.Config
	Store   *services.RecordStore
	Storage services.StorageProvider
	Gate    *services.AccessGate
}

// Inject makes config and services available to handlers
func Inject(app AppServices) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyConfig, app.Config)
			c.Set(ContextKeyStore, app.Store)
			c.Set(ContextKeyStorage, app.Storage)
			c.Set(ContextKeyAccessGate, app.Gate)
			return next(c)
		}
	}
}

// GetConfig retrieves the config from context
func GetConfig(c echo.Context) *config.Config {
	cfg, ok := c.Get(ContextKeyConfig).(*config.Config)
	if !ok {
		return nil
	}
	return cfg
}

// GetRecordStore retrieves the record store from context
func GetRecordStore(c echo.Context) *services.RecordStore {
	store, ok := c.Get(ContextKeyStore).(*services.RecordStore)
	if !ok {
		return nil
	}
	return store
}

// GetStorage retrieves the storage provider from context
func GetStorage(c echo.Context) services.StorageProvider {
	storage, ok := c.Get(ContextKeyStorage).(services.StorageProvider)
	if !ok {
		return nil
	}
	return storage
}

// GetAccessGate retrieves the access-code gate from context
func GetAccessGate(c echo.Context) *services.AccessGate {
	gate, ok := c.Get(ContextKeyAccessGate).(*services.AccessGate)
	if !ok {
		return nil
	}
	return gate
}

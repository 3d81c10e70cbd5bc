package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "store.backend")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the list of valid log output formats
func ValidLogFormats() []string {
	return []string{"console", "json"}
}

// ValidStoreBackends returns the list of valid snapshot stores
func ValidStoreBackends() []string {
	return []string{"file", "redis"}
}

// ValidSnapshotFormats returns the list of valid snapshot encodings
func ValidSnapshotFormats() []string {
	return []string{"json", "cbor"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Session.Name) == "" || strings.ContainsAny(c.Session.Name, `/\`) {
		errors = append(errors, ValidationError{
			Field:   "session.name",
			Value:   c.Session.Name,
			Message: "must be non-empty and must not contain path separators",
		})
	}

	if c.Pool.Columns.FirstName == "" {
		errors = append(errors, ValidationError{
			Field:   "pool.columns.first_name",
			Value:   c.Pool.Columns.FirstName,
			Message: "must not be empty",
		})
	}
	if c.Pool.Columns.Surname == "" {
		errors = append(errors, ValidationError{
			Field:   "pool.columns.surname",
			Value:   c.Pool.Columns.Surname,
			Message: "must not be empty",
		})
	}

	errors = append(errors, c.validateStore()...)

	if !slices.Contains(ValidSnapshotFormats(), c.Snapshot.Format) {
		errors = append(errors, ValidationError{
			Field:   "snapshot.format",
			Value:   c.Snapshot.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidSnapshotFormats(), ", ")),
		})
	}

	if c.Operator.PasswordHash != "" && !strings.HasPrefix(c.Operator.PasswordHash, "$2") {
		errors = append(errors, ValidationError{
			Field:   "operator.password_hash",
			Value:   "<redacted>",
			Message: "must be a bcrypt hash (see `auctioneer passwd`)",
		})
	}

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), c.Logging.Format) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateStore() []ValidationError {
	var errors []ValidationError

	switch c.Store.Backend {
	case "file":
		if c.Store.Dir == "" {
			errors = append(errors, ValidationError{
				Field:   "store.dir",
				Value:   c.Store.Dir,
				Message: "must be set for the file backend",
			})
		}
	case "redis":
		if c.Store.Redis.Addr == "" {
			errors = append(errors, ValidationError{
				Field:   "store.redis.addr",
				Value:   c.Store.Redis.Addr,
				Message: "must be set for the redis backend",
			})
		}
		if c.Store.Redis.DB < 0 {
			errors = append(errors, ValidationError{
				Field:   "store.redis.db",
				Value:   c.Store.Redis.DB,
				Message: "must be non-negative",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "store.backend",
			Value:   c.Store.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStoreBackends(), ", ")),
		})
	}

	return errors
}

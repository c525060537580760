// Package repository provides data access layer implementations for the application.
package repository

import (
	"strings"
)

// isUniqueConstraintError reports whether err comes from a violated unique
// constraint, across the postgres and sqlite drivers.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

package db

import "strings"

// IsUniqueViolation reports whether err references a unique constraint
// violation. With a constraintName the check narrows to that constraint; the
// generic duplicate-key text covers postgres and sqlite alike.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

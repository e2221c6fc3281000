// Package repository contains data access logic separated from HTTP
// handlers.  This file defines sentinel errors reused across multiple
// repositories so handlers can map failure scenarios onto HTTP codes
// without inspecting driver-specific error strings.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// constraint (e.g. registering an email twice, reusing a category
// name).  Handlers translate it into HTTP 409.
var ErrDuplicate = errors.New("already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry
// violation (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// Package repository contains the MySQL-backed persistence layer: one repo
// per table plus a Store facade that satisfies the service's store
// interface. Expected failures (missing person, duplicate name) are mapped
// onto the service package's sentinel errors so business code never
// inspects driver error strings.
package repository

import "strings"

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

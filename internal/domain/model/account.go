// Package model contains the domain value types shared across the application.
package model

// Account is a concrete identity in the directory. Two reviewer specifiers
// that resolve to the same account are the same reviewer; equality is by ID.
type Account struct {
	ID       int64
	Username string
	Email    string // Preferred email; secondary emails live in the directory.
	FullName string
}

// Group is a handle to a named group of accounts. Membership is expanded
// through the directory, scoped to a project.
type Group struct {
	UUID string
	Name string
}

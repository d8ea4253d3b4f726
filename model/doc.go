// Package model defines the user record persisted in the "user" table and the
// page request used to filter it.
package model

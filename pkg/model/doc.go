// Package model defines the data shapes shared by the form engine: field
// definitions, validation and conditional rules, the persisted form schema,
// and the transient answer map used during evaluation. The package carries no
// behavior beyond defaults, deep copies, and value coercion helpers.
package model

// Package account builds the registration and profile pages. Both pages
// share one field set and keep their values and errors in a formstate.Store
// driven by a validation.Checker.
package account

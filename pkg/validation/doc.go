// Package validation holds the account-form validators and the incremental
// error-map checker used by the registration and profile pages.
//
// Validators are pure: they return "" for valid input or a message key such
// as "validation.email.invalid". Message resolves keys to text, translated
// when a translator is supplied.
package validation

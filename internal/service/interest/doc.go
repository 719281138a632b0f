// Package interest implements the expression-of-interest intake pipeline
// and the admin listing query service.
//
// The service layer owns validation, verification, and notification policy.
// It depends on the Repository, Verifier, and Notifier interfaces defined in
// this package and should never import from api/.
//
// The Repository implementation lives in repository/postgres/; the Verifier
// in turnstile/; Notifier implementations in notify/.
package interest

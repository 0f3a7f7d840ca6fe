// Package errors provides the structured error type shared by the reactivity
// packages. Every failure that crosses a package boundary is an *AppError
// carrying a machine-readable code, a retryable flag and the HTTP status a
// gateway would map it to.
package errors

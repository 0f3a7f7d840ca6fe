// Package devserver is an in-memory Reactivity backend for development and
// tests.
//
// It serves the discovery document and the backend event routes from a
// Dataset. When no domains are configured the discovery document lists the
// server itself, so a client pointed at the server's origin discovers and
// calls the same process.
package devserver

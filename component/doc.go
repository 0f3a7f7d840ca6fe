// Package component defines the lifecycle contract shared by the HTTP
// adapter, the domain resolver and the mock backend, plus a Registry that
// starts them in order and stops them in reverse.
package component

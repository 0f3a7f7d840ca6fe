package di

import (
	"fmt"
	"sync"
)

// MustResolve resolves a value with type safety and panics on error.
//
//	resolver := di.MustResolve[*discovery.Resolver](c, di.Keys.APIDomain)
func MustResolve[T any](c Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Resolve resolves a value with type safety. Lookup errors are wrapped, so
// errors.IsNotFound still matches an unknown key.
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.RequestProvider(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: provider %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// TryResolve returns the zero value and false when the key is missing, fails,
// or holds another type.
func TryResolve[T any](c Container, key string) (T, bool) {
	result, err := Resolve[T](c, key)
	return result, err == nil
}

// Once memoizes fn. The first result, value or error, is returned on every call.
func Once[T any](fn func() (T, error)) func() (T, error) {
	return sync.OnceValues(fn)
}

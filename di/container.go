package di

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/reactivity-io/reactivity-go/errors"
	"github.com/reactivity-io/reactivity-go/logger"
)

// RegistrationMode determines how a registration produces its value.
type RegistrationMode int

const (
	Factory   RegistrationMode = iota // Invoke the constructor on every request
	Lazy                              // Invoke on first request, then cache
	Eager                             // Invoke at registration, then cache
	Singleton                         // Pre-created instance
)

// String returns the mode name.
func (m RegistrationMode) String() string {
	switch m {
	case Factory:
		return "factory"
	case Lazy:
		return "lazy"
	case Eager:
		return "eager"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Container is a key-to-provider registry. Registering a key that already
// exists replaces the previous registration.
type Container interface {
	// Provide registers a constructor that is invoked on every RequestProvider call.
	Provide(key string, constructor interface{}) error
	// RequestProvider returns the value for key, or a PROVIDER_NOT_FOUND error.
	RequestProvider(key string) (interface{}, error)

	RegisterLazy(key string, constructor interface{}) error
	RegisterEager(key string, constructor interface{}) error
	RegisterSingleton(key string, instance interface{}) error

	// Resolve is RequestProvider under the name used by the typed helpers.
	Resolve(key string) (interface{}, error)
	Has(key string) bool
	Registrations() []RegistrationInfo
	Close() error
}

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

// UnifiedContainer is the Container implementation.
type UnifiedContainer struct {
	mu      sync.RWMutex
	entries map[string]*registration
}

type registration struct {
	key         string
	mode        RegistrationMode
	constructor reflect.Value

	mu          sync.Mutex
	instance    interface{}
	initialized bool
}

var _ Container = (*UnifiedContainer)(nil)

// NewContainer creates an empty container.
func NewContainer() *UnifiedContainer {
	return &UnifiedContainer{entries: make(map[string]*registration)}
}

// Provide registers a factory. Accepted shapes are func() T, func() (T, error),
// func(context.Context) (T, error) and func(Container) (T, error).
func (c *UnifiedContainer) Provide(key string, constructor interface{}) error {
	fn, err := checkConstructor(key, constructor)
	if err != nil {
		return err
	}
	c.put(&registration{key: key, mode: Factory, constructor: fn})
	return nil
}

// RegisterLazy registers a constructor that runs once on first request. A
// failed construction is not cached.
func (c *UnifiedContainer) RegisterLazy(key string, constructor interface{}) error {
	fn, err := checkConstructor(key, constructor)
	if err != nil {
		return err
	}
	c.put(&registration{key: key, mode: Lazy, constructor: fn})
	return nil
}

// RegisterEager runs the constructor immediately and caches its value.
func (c *UnifiedContainer) RegisterEager(key string, constructor interface{}) error {
	fn, err := checkConstructor(key, constructor)
	if err != nil {
		return err
	}
	instance, err := c.call(fn)
	if err != nil {
		return fmt.Errorf("di: failed to initialize eager provider %q: %w", key, err)
	}
	c.put(&registration{key: key, mode: Eager, instance: instance, initialized: true})
	return nil
}

// RegisterSingleton registers a pre-created instance.
func (c *UnifiedContainer) RegisterSingleton(key string, instance interface{}) error {
	c.put(&registration{key: key, mode: Singleton, instance: instance, initialized: true})
	return nil
}

func (c *UnifiedContainer) put(reg *registration) {
	c.mu.Lock()
	_, replaced := c.entries[reg.key]
	c.entries[reg.key] = reg
	c.mu.Unlock()

	logger.Debug("Provider registered", map[string]interface{}{
		logger.FieldKey: reg.key,
		"mode":          reg.mode.String(),
		"replaced":      replaced,
	})
}

// RequestProvider returns the value registered under key.
func (c *UnifiedContainer) RequestProvider(key string) (interface{}, error) {
	c.mu.RLock()
	reg, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.ProviderNotFound(key)
	}

	switch reg.mode {
	case Factory:
		return c.call(reg.constructor)
	case Lazy:
		return c.resolveLazy(reg)
	default:
		return reg.instance, nil
	}
}

// Resolve is RequestProvider.
func (c *UnifiedContainer) Resolve(key string) (interface{}, error) {
	return c.RequestProvider(key)
}

// Has reports whether key is registered.
func (c *UnifiedContainer) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

func (c *UnifiedContainer) resolveLazy(reg *registration) (interface{}, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.initialized {
		return reg.instance, nil
	}
	instance, err := c.call(reg.constructor)
	if err != nil {
		logger.Debug("Lazy provider initialization failed", map[string]interface{}{
			logger.FieldKey:   reg.key,
			logger.FieldError: err.Error(),
		})
		return nil, fmt.Errorf("di: failed to initialize lazy provider %q: %w", reg.key, err)
	}
	reg.instance = instance
	reg.initialized = true
	return instance, nil
}

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	containerType = reflect.TypeOf((*Container)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

func checkConstructor(key string, constructor interface{}) (reflect.Value, error) {
	fn := reflect.ValueOf(constructor)
	if fn.Kind() != reflect.Func {
		return reflect.Value{}, errors.InvalidInput("constructor", fmt.Sprintf("provider %q: must be a function, got %T", key, constructor))
	}

	t := fn.Type()
	switch t.NumIn() {
	case 0:
	case 1:
		if t.In(0) != contextType && t.In(0) != containerType {
			return reflect.Value{}, errors.InvalidInput("constructor", fmt.Sprintf("provider %q: unsupported argument %s", key, t.In(0)))
		}
	default:
		return reflect.Value{}, errors.InvalidInput("constructor", fmt.Sprintf("provider %q: takes at most one argument", key))
	}

	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return reflect.Value{}, errors.InvalidInput("constructor", fmt.Sprintf("provider %q: second result must be error", key))
		}
	default:
		return reflect.Value{}, errors.InvalidInput("constructor", fmt.Sprintf("provider %q: must return (T) or (T, error)", key))
	}
	return fn, nil
}

func (c *UnifiedContainer) call(fn reflect.Value) (interface{}, error) {
	var args []reflect.Value
	if fn.Type().NumIn() == 1 {
		if fn.Type().In(0) == contextType {
			args = []reflect.Value{reflect.ValueOf(context.Background())}
		} else {
			args = []reflect.Value{reflect.ValueOf(Container(c))}
		}
	}

	results := fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// Registrations returns every registration sorted by key.
func (c *UnifiedContainer) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]RegistrationInfo, 0, len(c.entries))
	for key, reg := range c.entries {
		reg.mu.Lock()
		result = append(result, RegistrationInfo{Key: key, Mode: reg.mode, Initialized: reg.initialized})
		reg.mu.Unlock()
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Close closes every cached value that implements Close() error. Values
// produced by Provide factories belong to their callers and are not tracked.
// Closers run without the container lock held, so they may use the container.
func (c *UnifiedContainer) Close() error {
	type closer struct {
		key string
		c   interface{ Close() error }
	}
	var closers []closer

	c.mu.Lock()
	for key, reg := range c.entries {
		reg.mu.Lock()
		instance, initialized := reg.instance, reg.initialized
		reg.mu.Unlock()
		if !initialized {
			continue
		}
		if cl, ok := instance.(interface{ Close() error }); ok {
			closers = append(closers, closer{key: key, c: cl})
		}
	}
	c.mu.Unlock()

	var errs []error
	for _, cl := range closers {
		if err := cl.c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", cl.key, err))
		}
	}
	return stderrors.Join(errs...)
}

package di

import (
	"context"
	stderrors "errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reactivity-io/reactivity-go/errors"
)

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestRequestProvider_NotFound(t *testing.T) {
	c := NewContainer()
	v, err := c.RequestProvider("missing")
	if v != nil {
		t.Errorf("expected nil value, got %v", v)
	}
	if !errors.HasCode(err, errors.ErrCodeProviderNotFound) {
		t.Fatalf("expected PROVIDER_NOT_FOUND, got %v", err)
	}
	if !errors.IsNotFound(err) {
		t.Error("expected IsNotFound to match")
	}
}

func TestProvide_FactoryInvokedOncePerRequest(t *testing.T) {
	c := NewContainer()
	var calls atomic.Int32
	if err := c.Provide("counter", func() int { return int(calls.Add(1)) }); err != nil {
		t.Fatal(err)
	}

	for want := 1; want <= 3; want++ {
		v, err := c.RequestProvider("counter")
		if err != nil {
			t.Fatal(err)
		}
		if v.(int) != want {
			t.Errorf("request %d: got %v", want, v)
		}
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 factory calls, got %d", calls.Load())
	}
}

func TestProvide_LastRegistrationWins(t *testing.T) {
	c := NewContainer()
	_ = c.Provide(Keys.APIDomain, func() string { return "first" })
	_ = c.Provide(Keys.APIDomain, func() string { return "second" })

	v, err := Resolve[string](c, Keys.APIDomain)
	if err != nil {
		t.Fatal(err)
	}
	if v != "second" {
		t.Errorf("expected second registration to win, got %q", v)
	}
	if len(c.Registrations()) != 1 {
		t.Errorf("expected one registration, got %d", len(c.Registrations()))
	}
}

func TestProvide_FactoryError(t *testing.T) {
	c := NewContainer()
	boom := stderrors.New("boom")
	_ = c.Provide("broken", func() (string, error) { return "", boom })
	if _, err := c.RequestProvider("broken"); !stderrors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}

func TestProvide_RejectsBadConstructors(t *testing.T) {
	c := NewContainer()
	bad := []interface{}{
		"not a func",
		func(a, b int) int { return a + b },
		func(int) int { return 0 },
		func() (int, int) { return 0, 0 },
		func() {},
	}
	for i, ctor := range bad {
		err := c.Provide("bad", ctor)
		if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("case %d: expected INVALID_INPUT, got %v", i, err)
		}
	}
	if c.Has("bad") {
		t.Error("rejected constructor must not be registered")
	}
}

func TestProvide_ContextAndContainerArgs(t *testing.T) {
	c := NewContainer()
	_ = c.RegisterSingleton(Keys.Config, "cfg")
	_ = c.Provide("ctx", func(ctx context.Context) (bool, error) { return ctx != nil, nil })
	_ = c.Provide("dep", func(inner Container) (string, error) {
		cfg, err := Resolve[string](inner, Keys.Config)
		return "uses " + cfg, err
	})

	if ok := MustResolve[bool](c, "ctx"); !ok {
		t.Error("expected a context to be passed")
	}
	if got := MustResolve[string](c, "dep"); got != "uses cfg" {
		t.Errorf("unexpected value %q", got)
	}
}

func TestOnce_MemoizesFactory(t *testing.T) {
	c := NewContainer()
	var calls atomic.Int32
	type resolver struct{ id int32 }
	_ = c.Provide(Keys.APIDomain, Once(func() (*resolver, error) {
		return &resolver{id: calls.Add(1)}, nil
	}))

	a := MustResolve[*resolver](c, Keys.APIDomain)
	b := MustResolve[*resolver](c, Keys.APIDomain)
	if a != b || calls.Load() != 1 {
		t.Errorf("expected one shared instance, got %p %p after %d calls", a, b, calls.Load())
	}
}

func TestRegisterLazy_RetriesAfterFailure(t *testing.T) {
	c := NewContainer()
	var calls atomic.Int32
	_ = c.RegisterLazy("lazy", func() (int, error) {
		if calls.Add(1) == 1 {
			return 0, stderrors.New("not yet")
		}
		return 42, nil
	})

	if _, err := c.Resolve("lazy"); err == nil {
		t.Fatal("expected first resolve to fail")
	}
	for i := 0; i < 2; i++ {
		v, err := c.Resolve("lazy")
		if err != nil || v.(int) != 42 {
			t.Fatalf("unexpected %v %v", v, err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 constructor calls, got %d", calls.Load())
	}
}

func TestRegisterEager(t *testing.T) {
	c := NewContainer()
	if err := c.RegisterEager("eager", func() (string, error) { return "", stderrors.New("fail") }); err == nil {
		t.Error("expected eager failure to surface at registration")
	}
	if err := c.RegisterEager("eager", func() string { return "ready" }); err != nil {
		t.Fatal(err)
	}
	infos := c.Registrations()
	if len(infos) != 1 || infos[0].Mode != Eager || !infos[0].Initialized {
		t.Errorf("unexpected registrations %+v", infos)
	}
}

func TestRegistrations_Sorted(t *testing.T) {
	c := NewContainer()
	_ = c.RegisterSingleton(Keys.Logger, 1)
	_ = c.Provide(Keys.API, func() int { return 2 })
	_ = c.RegisterLazy(Keys.HTTP, func() int { return 3 })

	infos := c.Registrations()
	var keys []string
	for _, info := range infos {
		keys = append(keys, info.Key+":"+info.Mode.String())
	}
	if got := strings.Join(keys, ","); got != "api:factory,http:lazy,logger:singleton" {
		t.Errorf("unexpected registrations %s", got)
	}
}

func TestClose_ClosesCachedValues(t *testing.T) {
	c := NewContainer()
	single := &closer{}
	lazy := &closer{err: stderrors.New("close failed")}
	unresolved := &closer{}
	factory := &closer{}

	_ = c.RegisterSingleton("single", single)
	_ = c.RegisterLazy("lazy", func() *closer { return lazy })
	_ = c.RegisterLazy("unresolved", func() *closer { return unresolved })
	_ = c.Provide("factory", func() *closer { return factory })
	_, _ = c.Resolve("lazy")
	_, _ = c.Resolve("factory")

	err := c.Close()
	if err == nil || !strings.Contains(err.Error(), "close failed") {
		t.Errorf("expected close error, got %v", err)
	}
	if !single.closed || !lazy.closed {
		t.Error("expected cached values to be closed")
	}
	if unresolved.closed || factory.closed {
		t.Error("unresolved and factory values must not be closed")
	}
}

type reentrantCloser struct {
	c     Container
	found bool
}

func (r *reentrantCloser) Close() error {
	_, err := r.c.RequestProvider(Keys.Config)
	r.found = r.c.Has(Keys.Config) && err == nil
	return nil
}

func TestClose_CloserMayUseContainer(t *testing.T) {
	c := NewContainer()
	rc := &reentrantCloser{c: c}
	_ = c.RegisterSingleton(Keys.Config, "cfg")
	_ = c.RegisterSingleton("reentrant", rc)

	done := make(chan error, 1)
	go func() { done <- c.Close() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected close error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked while a closer used the container")
	}
	if !rc.found {
		t.Error("expected the closer to see the registered config")
	}
}

func TestTypedHelpers(t *testing.T) {
	c := NewContainer()
	_ = c.RegisterSingleton(Keys.HTTP, 7)

	if _, err := Resolve[string](c, Keys.HTTP); err == nil {
		t.Error("expected type mismatch error")
	}
	_, err := Resolve[int](c, "missing")
	if !errors.IsNotFound(err) {
		t.Errorf("expected wrapped not found, got %v", err)
	}
	if v, ok := TryResolve[int](c, Keys.HTTP); !ok || v != 7 {
		t.Errorf("unexpected TryResolve %v %v", v, ok)
	}
	if _, ok := TryResolve[int](c, "missing"); ok {
		t.Error("expected TryResolve to fail")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected MustResolve to panic")
		}
	}()
	MustResolve[int](c, "missing")
}

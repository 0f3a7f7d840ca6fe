package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reactivity-io/reactivity-go/component"
	"github.com/reactivity-io/reactivity-go/config"
	"github.com/reactivity-io/reactivity-go/di"
	"github.com/reactivity-io/reactivity-go/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	m.started = true
	return m.startErr
}

func (m *mockComponent) Stop(context.Context) error {
	m.stopped = true
	return nil
}

func (m *mockComponent) Health(context.Context) component.Health { return m.health }

func (m *mockComponent) Describe() component.Description {
	return component.Description{Type: "discovery", Details: "https://app.example.com/domain-api.json"}
}

func (m *mockComponent) Routes() []component.Route {
	return []component.Route{{Method: "GET", Path: "/domain-api.json", Handler: "discovery"}}
}

func newTestApp(t *testing.T, opts ...Option) (*App[*testConfig], *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "reactivity", Version: "1.2.3"}}
	opts = append([]Option{WithLogger(logger.Nop()), WithSummaryWriter(&out)}, opts...)
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app, &out
}

func TestNewApp_RegistersConfigAndLogger(t *testing.T) {
	app, _ := newTestApp(t)
	if app.Name != "reactivity" || app.Version != "1.2.3" {
		t.Errorf("unexpected identity %s %s", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected defaults applied, got %q", app.Cfg.Environment)
	}
	if got := di.MustResolve[*testConfig](app.Container, di.Keys.Config); got != app.Cfg {
		t.Error("expected config provider to return the app config")
	}
	if _, ok := di.TryResolve[*logger.Logger](app.Container, di.Keys.Logger); !ok {
		t.Error("expected logger provider")
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.Nop()))
	if err == nil || !strings.Contains(err.Error(), "config validation") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	app, out := newTestApp(t)
	comp := &mockComponent{name: "discovery", health: component.Health{Name: "discovery", Status: component.StatusHealthy}}
	if err := app.RegisterComponent(comp); err != nil {
		t.Fatal(err)
	}

	var order []string
	app.OnStart(func(context.Context) error { order = append(order, "start"); return nil })
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		order = append(order, "configure")
		return a.Container.Provide("greeting", func() string { return "hi" })
	})
	app.OnReady(func(context.Context) error { order = append(order, "ready"); return nil })
	app.OnStop(func(context.Context) error { order = append(order, "stop"); return nil })

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		if v := di.MustResolve[string](app.Container, "greeting"); v != "hi" {
			t.Errorf("unexpected provider value %q", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if got := strings.Join(order, ","); got != "start,configure,ready,task,stop" {
		t.Errorf("unexpected order %s", got)
	}
	if !comp.started || !comp.stopped {
		t.Error("expected component to be started and stopped")
	}

	summary := out.String()
	for _, want := range []string{"reactivity v1.2.3", "[discovery]", "/domain-api.json", "greeting (factory)", "discovery healthy"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestRunTask_ReturnsTaskError(t *testing.T) {
	app, _ := newTestApp(t)
	taskErr := errors.New("task failed")
	if err := app.RunTask(context.Background(), func(context.Context) error { return taskErr }); !errors.Is(err, taskErr) {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestRunTask_StartFailureStopsStartedComponents(t *testing.T) {
	app, _ := newTestApp(t)
	first := &mockComponent{name: "http"}
	failing := &mockComponent{name: "discovery", startErr: errors.New("boom")}
	_ = app.RegisterComponent(first)
	_ = app.RegisterComponent(failing)

	ran := false
	err := app.RunTask(context.Background(), func(context.Context) error { ran = true; return nil })
	if err == nil || !strings.Contains(err.Error(), "initialization failed") {
		t.Fatalf("expected initialization error, got %v", err)
	}
	if ran {
		t.Error("task must not run after failed startup")
	}
	if !first.stopped {
		t.Error("expected started component to be stopped")
	}
}

func TestRun_StopsWhenContextDone(t *testing.T) {
	app, _ := newTestApp(t, WithGracefulTimeout(time.Second), WithoutSummary())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReadyCheck(t *testing.T) {
	app, _ := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "api", health: component.Health{
		Name: "api", Status: component.StatusUnhealthy, Message: "no domains",
	}})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "api=unhealthy(no domains)") {
		t.Errorf("unexpected ready check %v", err)
	}
}

func TestWithContainer(t *testing.T) {
	c := di.NewContainer()
	app, _ := newTestApp(t, WithContainer(c))
	if app.Container != c {
		t.Error("expected custom container")
	}
}
